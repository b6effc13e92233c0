package protoconn

import "testing"

func TestRequestKindString(t *testing.T) {
	cases := []struct {
		kind RequestKind
		want string
	}{
		{RequestClear, "clear"},
		{RequestPing, "ping"},
		{RequestKill, "kill"},
		{RequestQuery, "query"},
		{RequestImg, "img"},
		{RequestKind(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("RequestKind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestAnswerZeroValueIsOk(t *testing.T) {
	var a Answer
	if a.Kind != AnswerOk {
		t.Errorf("zero-value Answer.Kind = %v, want AnswerOk", a.Kind)
	}
}
