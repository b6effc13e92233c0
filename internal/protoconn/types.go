// Package protoconn declares the decoded client command envelope the
// dispatcher routes: the wire format itself (how bytes on the UNIX socket
// become these Go values) is an external collaborator's concern;
// this package only names what the core consumes and produces.
package protoconn

import (
	"time"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/effect"
)

// RequestKind tags which variant a Request holds.
type RequestKind int

const (
	RequestClear RequestKind = iota
	RequestPing
	RequestKill
	RequestQuery
	RequestImg
)

func (k RequestKind) String() string {
	switch k {
	case RequestClear:
		return "clear"
	case RequestPing:
		return "ping"
	case RequestKill:
		return "kill"
	case RequestQuery:
		return "query"
	case RequestImg:
		return "img"
	default:
		return "unknown"
	}
}

// Request is a decoded client command. Exactly the fields matching Kind
// are populated; this mirrors the source's tagged-union request enum as a
// single struct, the Go idiom for a small closed set of variants.
type Request struct {
	Kind  RequestKind
	Clear ClearRequest
	Img   ImgRequest
}

// ClearRequest fills a set of outputs with a solid color. An empty Outputs
// list means every currently known output.
type ClearRequest struct {
	Color   common.Color
	Outputs []string
}

// ImgRequest starts a transition (and optional trailing animation) toward
// one image per output group.
type ImgRequest struct {
	Transition effect.Descriptor
	Imgs       []ImgReq
	Outputs    [][]string
	Animations []Animation // nil if the request carried no animations
}

// ImgReq is one target image: its pixel bytes (already decoded to the
// daemon's negotiated pixel format), the path reported back via Query, and
// its declared dimensions.
type ImgReq struct {
	Img    []byte
	Path   string
	Width  int
	Height int
}

// Animation is a decoded, looped frame sequence, still compressed per-frame
// until an ImageAnimator decompresses each frame in turn.
type Animation struct {
	Frames []AnimationFrame
}

// AnimationFrame pairs one compressed frame with how long it should remain
// on screen once drawn.
type AnimationFrame struct {
	Data     []byte
	Duration time.Duration
}

// AnswerKind tags which variant an Answer holds.
type AnswerKind int

const (
	AnswerOk AnswerKind = iota
	AnswerPing
	AnswerInfo
	AnswerError
)

// Answer is the reply sent back to a client for any Request.
type Answer struct {
	Kind  AnswerKind
	Ping  bool         // valid when Kind == AnswerPing: true iff every known output is configured
	Info  []OutputInfo // valid when Kind == AnswerInfo
	Error string       // valid when Kind == AnswerError
}

// OutputInfo is one output's snapshot, as reported by Query.
type OutputInfo struct {
	Name     string
	Width    int
	Height   int
	Scale    float64
	BgColor  common.Color
	BgPath   string
	IsColor  bool
}
