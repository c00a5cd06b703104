package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/twin.go/pkg/hal"
	"github.com/robotalks/twin.go/pkg/hal/mqtt"
	"github.com/robotalks/twin.go/pkg/hal/sim"
	"github.com/robotalks/twin.go/pkg/l0/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/twin/"
)

func init() {
	if val := os.Getenv("TWIN_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL, "mon")
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub(mqtt.TopicInput, func(topic string, payload []byte) {
		in, err := msgs.ParseInput(payload)
		if err != nil {
			log.Printf("%s: %q rejected: %v", topic, payload, err)
			return
		}
		log.Printf("%s: %s", topic, in)
	})
	q.Sub(mqtt.TopicServo, func(topic string, payload []byte) {
		var cmd msgs.ServoCommand
		if err := msgs.Decode(payload, &cmd); err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		log.Printf("%s: %d°", topic, cmd.Angle)
	})
	q.Sub(mqtt.TopicLED, func(topic string, payload []byte) {
		var m msgs.LEDFrame
		if err := msgs.Decode(payload, &m); err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		var f hal.Frame
		if err := f.SetBytes(m.Pixels); err != nil {
			log.Printf("%s: %v", topic, err)
			return
		}
		log.Printf("%s: brightness=%d\n%s", topic, m.Brightness, sim.Sketch(&f))
	})

	token := q.Client.Connect()
	if token.Wait(); token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
