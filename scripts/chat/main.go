package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
)

// Interactive TCP client for poking at a running relay by hand:
//
//	go run ./scripts/chat -addr localhost:12123
//
// First line is your username, then "bob -> hello" sends to bob.
func main() {
	if err := run(); err != nil {
		log.Printf("chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "localhost:12123", "relay TCP address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	go func() {
		if _, err := io.Copy(os.Stdout, conn); err != nil && err != io.EOF {
			log.Printf("read: %v", err)
		}
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(conn, scanner.Text()); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return scanner.Err()
}
