// Command devicesim plays the camera/sensor board against a running gateway:
// it streams telemetry frames, optionally an image, and prints the commands
// the gateway sends back.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/fatih/color"
)

func main() {
	addr := flag.String("addr", "ws://localhost:3000/", "gateway socket URL")
	key := flag.String("key", "RANDOM_STUFF", "shared gateway key")
	interval := flag.Duration("interval", 2*time.Second, "time between telemetry rounds")
	imagePath := flag.String("image", "", "JPEG/PNG sent as camera frame every round")
	flag.Parse()

	u, err := url.Parse(*addr)
	if err != nil {
		color.Red("Bad address: %v", err)
		os.Exit(1)
	}
	q := u.Query()
	q.Set("key", *key)
	q.Set("type", "beagle")
	u.RawQuery = q.Encode()

	var image []byte
	if *imagePath != "" {
		image, err = os.ReadFile(*imagePath)
		if err != nil {
			color.Red("Failed to read image: %v", err)
			os.Exit(1)
		}
	}

	color.Cyan("Connecting to %s", u.Redacted())
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		color.Red("Failed to connect: %v", err)
		os.Exit(1)
	}
	defer conn.Close()
	color.Green("Connected as controller")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go readCommands(conn, stop)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			color.Cyan("Bye")
			return
		case <-ticker.C:
			if err := sendRound(conn, image); err != nil {
				color.Red("Send failed: %v", err)
				return
			}
		}
	}
}

// sendRound writes one frame per channel, payloads as ASCII decimals.
func sendRound(conn *websocket.Conn, image []byte) error {
	frames := []struct {
		tag   byte
		value string
	}{
		{'l', fraction(rand.Float64())},
		{'x', fraction(rand.Float64())},
		{'y', fraction(rand.Float64())},
		// raw thermistor value; 1731 reads as 20 C with the default calibration
		{'t', strconv.Itoa(1650 + rand.Intn(200))},
		{'b', fraction(0.5 + rand.Float64()/2)},
	}

	for _, f := range frames {
		if err := conn.WriteMessage(websocket.BinaryMessage, append([]byte{f.tag}, f.value...)); err != nil {
			return err
		}
	}
	fmt.Printf("%s l/x/y/t/b sent\n", time.Now().Format(time.TimeOnly))

	if image != nil {
		return conn.WriteMessage(websocket.BinaryMessage, append([]byte{'i'}, image...))
	}
	return nil
}

func fraction(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func readCommands(conn *websocket.Conn, stop func()) {
	defer stop()
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			color.Yellow("Connection closed: %v", err)
			return
		}
		if kind == websocket.TextMessage {
			color.Magenta("<- command %s", string(data))
		}
	}
}
