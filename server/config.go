package server

import (
	"time"
)

type Conf struct {
	Addr            string
	TimeoutRead     time.Duration
	TimeoutWrite    time.Duration
	TimeoutIdle     time.Duration
	ShutdownTimeout time.Duration
}

func ServerConfigs(addr string) Conf {
	return Conf{
		Addr:            addr,
		TimeoutRead:     time.Second * 30,
		TimeoutWrite:    time.Second * 30,
		TimeoutIdle:     time.Second * 30,
		ShutdownTimeout: time.Second * 10,
	}
}
