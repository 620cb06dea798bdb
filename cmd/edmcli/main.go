// cmd/edmcli/main.go
//
// edmcli is a bench console for a machine running the EDM controller: it
// forwards typed command lines over the controller's serial port and echoes
// every report line the firmware sends back.
//
//	edmcli -device /dev/ttyACM0 -baud 115200
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tarm/serial"
)

func main() {
	device := flag.String("device", "/dev/ttyACM0", "serial device of the controller board")
	baud := flag.Int("baud", 115200, "baud rate (ignored by USB CDC)")
	flag.Parse()

	// Blocking reads: a read timeout would make the line scanner give up
	// between reports.
	port, err := serial.OpenPort(&serial.Config{
		Name: *device,
		Baud: *baud,
	})
	if err != nil {
		log.Fatalf("open %s: %v", *device, err)
	}
	defer port.Close()

	// Reader: firmware reports arrive asynchronously, not only as command
	// responses, so echo everything as it comes.
	go func() {
		sc := bufio.NewScanner(port)
		for sc.Scan() {
			line := strings.TrimRight(sc.Text(), "\r")
			if line == "" {
				continue
			}
			fmt.Printf("< %s\n", line)
		}
		if err := sc.Err(); err != nil {
			log.Fatalf("read %s: %v", *device, err)
		}
	}()

	fmt.Printf("connected to %s (M550 status, M551 logging, M552/M553 start, M554 stop)\n", *device)
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if _, err := port.Write([]byte(line + "\n")); err != nil {
			log.Fatalf("write %s: %v", *device, err)
		}
	}
}
