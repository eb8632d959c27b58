package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/mcu.go/pkg/bridge"
	"github.com/robotalks/mcu.go/pkg/bridge/mqtt"
	"github.com/robotalks/mcu.go/pkg/bridge/msgs"
	"github.com/robotalks/mcu.go/pkg/env"
	fx "github.com/robotalks/mcu.go/pkg/framework"
	"github.com/robotalks/mcu.go/pkg/uart"
)

func init() {
	env.SetupFlags()
	uart.SetupFlags()
}

func main() {
	flag.Parse()

	conf := uart.NewConfig()
	hw := uart.NewSimHardware()
	port, err := conf.NewPort(hw)
	if err != nil {
		log.Fatalln(err)
	}
	app, err := newEcho(port, conf.RxBufferSize)
	if err != nil {
		log.Fatalln(err)
	}
	loop := fx.NewLoop()
	port.AddToLoop(loop)
	hw.Notify = port.RaiseRx
	loop.AddRunnable(app)

	meta := mqtt.PortMeta{
		Baudrate:     conf.Baudrate,
		TxBufferSize: conf.TxBufferSize,
		RxBufferSize: conf.RxBufferSize,
	}
	var ep *env.Endpoint
	ep = env.NewConfig().MustNewEndpoint(meta, func(ctx context.Context, conn bridge.PacketReadWriter, stats bridge.PacketWriter) error {
		b := bridge.New(hw, conn)
		b.Stats = func() *msgs.PortStats {
			return msgs.NewPortStats(ep.ID, port.Stats(), app.Stats())
		}
		b.StatsWriter = stats
		return b.Run(ctx)
	})

	if err := fx.NewRunner().HandleSignals().Go(loop, ep).Wait(); err != nil {
		log.Fatalln(err)
	}
}
