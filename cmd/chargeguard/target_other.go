//go:build !linux

package main

import (
	"chargeguard-go/errcode"
	"chargeguard-go/services/config"
)

func openHardware(config.Config) (*target, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "open", Msg: "hardware access needs Linux; use --sim"}
}
