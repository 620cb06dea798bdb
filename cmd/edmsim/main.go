// cmd/edmsim/main.go
//
// edmsim runs the EDM controller against a simulated pulser and a line
// console standing in for the firmware's command stream:
//
//	edmsim [config.yaml]
//	> M552 P300 Q2.5 R50
//	> M550 P1
//	> state cycle
//	> quit
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"edmcode-go/bus"
	"edmcode-go/drivers/pulser"
	"edmcode-go/errcode"
	"edmcode-go/services/edm"
	"edmcode-go/services/host"
	"edmcode-go/types"
)

var stateNames = map[string]types.MachineState{
	"idle":   types.StateIdle,
	"cycle":  types.StateCycle,
	"hold":   types.StateHold,
	"jog":    types.StateJog,
	"homing": types.StateHoming,
	"alarm":  types.StateAlarm,
}

func main() {
	cfg := DefaultConfig()
	if len(os.Args) > 1 {
		var err error
		if cfg, err = Load(os.Args[1]); err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}
	if err := Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	dev := newSimPulser(&cfg.Sim)
	h := &simHost{start: time.Now(), stepHz: cfg.Sim.StepFrequencyHz}
	c := edm.New(pulser.New(dev, 0), &simGate{dev: dev}, h)

	b := bus.NewBus(64)
	var samples *bus.Subscription
	if cfg.Sim.Telemetry {
		c.SetTelemetry(edm.NewTelemetry(b.NewConnection("edm")))
		samples = b.NewConnection("console").Subscribe(bus.T("edm", "sample"))
	}

	c.Init()
	if st := c.InitStatus(); st != edm.InitOK {
		fmt.Printf("init status %d: device not healthy, status queries only\n", st)
	}

	reg := host.NewRegistry()
	c.Attach(reg)

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	// Single cooperative loop: the controller's hooks and command handlers
	// must never run concurrently, mirroring the firmware's control loop.
	state := types.StateIdle
	verbose := false
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	fmt.Println("edmsim ready (M550-M554, state <name>, verbose, quit)")
	for {
		select {
		case <-tick.C:
			reg.OnRealtime(state)
			if samples != nil {
				drainSamples(samples, verbose)
			}

		case line, ok := <-lines:
			if !ok {
				return
			}
			done, newState := dispatch(reg, state, line, &verbose)
			if done {
				return
			}
			state = newState
		}
	}
}

func drainSamples(sub *bus.Subscription, verbose bool) {
	for {
		select {
		case msg := <-sub.Channel():
			if !verbose {
				continue
			}
			if s, ok := msg.Payload.(types.SampleValue); ok {
				fmt.Printf("sample n=%d pulse=%d short=%d open=%d motion=%v\n",
					s.NPulse, s.RPulse, s.RShort, s.ROpen, s.Motion)
			}
		default:
			return
		}
	}
}

// dispatch handles one console line. Returns done=true on quit.
func dispatch(reg *host.Registry, state types.MachineState, line string, verbose *bool) (bool, types.MachineState) {
	fields, err := shlex.Split(line)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return false, state
	}
	if len(fields) == 0 {
		return false, state
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true, state

	case "verbose":
		*verbose = !*verbose
		fmt.Printf("verbose %v\n", *verbose)
		return false, state

	case "state":
		if len(fields) != 2 {
			fmt.Println("usage: state <idle|cycle|hold|jog|homing|alarm>")
			return false, state
		}
		s, ok := stateNames[strings.ToLower(fields[1])]
		if !ok {
			fmt.Printf("unknown state %q\n", fields[1])
			return false, state
		}
		return false, s

	case "probe":
		st := reg.ProbeState()
		fmt.Printf("probe triggered=%v connected=%v\n", st.Triggered, st.Connected)
		return false, state

	case "probedone":
		reg.OnProbeDone()
		return false, state
	}

	blk, err := parseBlock(fields)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return false, state
	}
	if !reg.Owns(blk.Code) {
		fmt.Printf("error: M%d not handled\n", blk.Code)
		return false, state
	}
	if ec := reg.Validate(blk); ec != errcode.OK {
		fmt.Printf("error: %v\n", ec)
		return false, state
	}
	if ec := reg.Execute(state, blk); ec != errcode.OK {
		fmt.Printf("error: %v\n", ec)
		return false, state
	}
	fmt.Println("ok")
	return false, state
}

// parseBlock turns console fields like ["M552", "P300", "Q2.5"] into the
// host-parsed command form.
func parseBlock(fields []string) (*types.Block, error) {
	head := strings.ToUpper(fields[0])
	if len(head) < 2 || head[0] != 'M' {
		return nil, fmt.Errorf("expected an M-code, got %q", fields[0])
	}
	code, err := strconv.ParseUint(head[1:], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("bad code %q", fields[0])
	}

	blk := &types.Block{Code: uint16(code)}
	for _, f := range fields[1:] {
		f = strings.ToUpper(f)
		if len(f) < 2 {
			return nil, fmt.Errorf("bad word %q", f)
		}
		v, err := strconv.ParseFloat(f[1:], 32)
		if err != nil {
			return nil, fmt.Errorf("bad word %q", f)
		}
		blk.Words = append(blk.Words, types.Word{
			Letter: types.WordLetter(f[0]),
			Value:  float32(v),
		})
	}
	return blk, nil
}
