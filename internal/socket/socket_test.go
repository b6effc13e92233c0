package socket

import (
	"encoding/gob"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wlwallpaperd/wlwallpaperd/internal/protoconn"
)

func gobEncode(c net.Conn, v any) error { return gob.NewEncoder(c).Encode(v) }
func gobDecode(c net.Conn, v any) error { return gob.NewDecoder(c).Decode(v) }

func TestListenRemovesStaleSocketFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wlwallpaperd.sock")
	if err := os.WriteFile(path, []byte("not a socket"), 0o600); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen over a stale file: %v", err)
	}
	defer ln.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("socket file missing after Listen: %v", err)
	}
}

func TestListenRefusesWhenAnotherDaemonOwnsSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wlwallpaperd.sock")

	owner, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("seed owning listener: %v", err)
	}
	defer owner.Close()

	if _, err := Listen(path); err == nil {
		t.Fatal("Listen over a live socket = nil error, want a refusal")
	}
}

func TestAcceptReadRequestWriteAnswerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wlwallpaperd.sock")

	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	if ln.Fd() < 0 {
		t.Error("Fd() = negative, want a valid descriptor for a bound listener")
	}

	serverDone := make(chan protoconn.Request, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			t.Errorf("Accept: %v", err)
			return
		}
		defer conn.Close()
		req, err := conn.ReadRequest()
		if err != nil {
			t.Errorf("ReadRequest: %v", err)
			return
		}
		serverDone <- req
		if err := conn.WriteAnswer(protoconn.Answer{Kind: protoconn.AnswerPing, Ping: true}); err != nil {
			t.Errorf("WriteAnswer: %v", err)
		}
	}()

	client, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	sent := protoconn.Request{Kind: protoconn.RequestPing}
	if err := gobEncode(client, sent); err != nil {
		t.Fatalf("encode request: %v", err)
	}

	select {
	case got := <-serverDone:
		if got.Kind != protoconn.RequestPing {
			t.Errorf("server saw Kind = %v, want %v", got.Kind, protoconn.RequestPing)
		}
	case <-time.After(time.Second):
		t.Fatal("server never received the request")
	}

	var ans protoconn.Answer
	if err := gobDecode(client, &ans); err != nil {
		t.Fatalf("decode answer: %v", err)
	}
	if ans.Kind != protoconn.AnswerPing || !ans.Ping {
		t.Errorf("answer = %+v, want Kind=AnswerPing Ping=true", ans)
	}
}
