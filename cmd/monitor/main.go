// Command monitor tails hub events from a running server. It joins the
// doorman room (and optionally one department room) and prints every event.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"portero-http-service/pkg/relay"
)

func main() {
	server := flag.String("server", "ws://localhost:3001/ws", "hub websocket URL")
	porteroRoom := flag.Bool("portero", true, "join the doorman room")
	department := flag.Uint("department", 0, "also join this department's room")
	flag.Parse()

	client := relay.NewClient(*server)

	client.OnDepartmentUpdate(func(data json.RawMessage) {
		printEvent("department-update", data)
	})
	client.OnIncomingCall(func(data json.RawMessage) {
		printEvent("incoming-call", data)
	})
	client.OnCallEnded(func(data json.RawMessage) {
		printEvent("call-ended", data)
	})

	client.Connect()

	if *porteroRoom {
		if err := client.JoinPortero(); err != nil {
			log.Printf("join portero failed: %v", err)
		}
	}
	if *department > 0 {
		if err := client.JoinDepartment(*department); err != nil {
			log.Printf("join department %d failed: %v", *department, err)
		}
	}

	fmt.Printf("watching %s, press Ctrl+C to stop\n", *server)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	client.Disconnect()
	fmt.Println("bye")
}

func printEvent(event string, data json.RawMessage) {
	var pretty map[string]interface{}
	if err := json.Unmarshal(data, &pretty); err != nil {
		fmt.Printf("%s: %s\n", event, string(data))
		return
	}
	fmt.Printf("%s: %v\n", event, pretty)
}
