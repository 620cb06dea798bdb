package host

import (
	"testing"

	"edmcode-go/errcode"
	"edmcode-go/types"
)

type stubHandler struct {
	code     uint16
	val      errcode.Code
	executed int
}

func (s *stubHandler) Owns(code uint16) bool              { return code == s.code }
func (s *stubHandler) Validate(*types.Block) errcode.Code { return s.val }
func (s *stubHandler) Execute(types.MachineState, *types.Block) errcode.Code {
	s.executed++
	return errcode.OK
}

func TestMCodeChainFirstOwnerWins(t *testing.T) {
	r := NewRegistry()
	older := &stubHandler{code: 100, val: errcode.OK}
	newer := &stubHandler{code: 100, val: errcode.ValueOutOfRange}
	r.AddMCodeHandler(older)
	r.AddMCodeHandler(newer)

	b := &types.Block{Code: 100}
	if got := r.Validate(b); got != errcode.ValueOutOfRange {
		t.Fatalf("expected newer handler to claim the code, got %v", got)
	}
	r.Execute(types.StateIdle, b)
	if newer.executed != 1 || older.executed != 0 {
		t.Fatalf("wrong handler executed: newer=%d older=%d", newer.executed, older.executed)
	}
}

func TestMCodeChainForwardsUnowned(t *testing.T) {
	r := NewRegistry()
	other := &stubHandler{code: 200}
	r.AddMCodeHandler(&stubHandler{code: 100})
	r.AddMCodeHandler(other)

	b := &types.Block{Code: 200}
	if !r.Owns(200) {
		t.Fatal("expected code 200 to be owned")
	}
	r.Execute(types.StateIdle, b)
	if other.executed != 1 {
		t.Fatal("unowned code not forwarded down the chain")
	}
}

func TestUnhandledCode(t *testing.T) {
	r := NewRegistry()
	r.AddMCodeHandler(&stubHandler{code: 100})

	b := &types.Block{Code: 999}
	if r.Owns(999) {
		t.Fatal("code 999 should be unowned")
	}
	if got := r.Validate(b); got != errcode.Unhandled {
		t.Fatalf("Validate = %v, want Unhandled", got)
	}
	if got := r.Execute(types.StateIdle, b); got != errcode.Unhandled {
		t.Fatalf("Execute = %v, want Unhandled", got)
	}
}

func TestRealtimeOrder(t *testing.T) {
	r := NewRegistry()
	var order []int
	r.AddRealtime(func(types.MachineState) { order = append(order, 1) })
	r.AddRealtime(func(types.MachineState) { order = append(order, 2) })

	r.OnRealtime(types.StateIdle)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("realtime order = %v, want [1 2]", order)
	}
}

func TestProbeDoneNewestFirst(t *testing.T) {
	r := NewRegistry()
	var order []int
	r.AddProbeDone(func() { order = append(order, 1) })
	r.AddProbeDone(func() { order = append(order, 2) })

	r.OnProbeDone()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("probe-done order = %v, want [2 1]", order)
	}
}

func TestProbeStateWithoutProbe(t *testing.T) {
	r := NewRegistry()
	st := r.ProbeState()
	if st.Triggered || st.Connected {
		t.Fatalf("expected zero probe state, got %+v", st)
	}
}

func TestNilRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil handler")
		}
	}()
	NewRegistry().AddMCodeHandler(nil)
}
