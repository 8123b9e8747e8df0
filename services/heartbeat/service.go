// Package heartbeat keeps reporting battery telemetry once the supervisor
// has let the boot continue.
package heartbeat

import (
	"context"
	"time"

	"chargeguard-go/drivers/rk818"
)

type Sampler interface {
	CalibrationPoint() (rk818.CalibrationPoint, error)
	SampleInto(rk818.CalibrationPoint, *rk818.Sample)
}

type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type Service struct {
	PMIC     Sampler
	Log      Logger
	Interval time.Duration // 0 means one second
}

func (s *Service) serviceLoop(ctx context.Context) {
	iv := s.Interval
	if iv <= 0 {
		iv = time.Second
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	var (
		cal    rk818.CalibrationPoint
		hasCal bool
		smp    rk818.Sample
	)
	// loop until context is cancelled
	for {
		select {
		case <-ctx.Done():
			s.Log.Infof("heartbeat service stopping")
			return
		case t := <-tick.C:
			if !hasCal {
				c, err := s.PMIC.CalibrationPoint()
				if err != nil {
					s.Log.Errorf("%s heartbeat: %v", t.Format("15:04:05"), err)
					continue
				}
				cal, hasCal = c, true
			}
			s.PMIC.SampleInto(cal, &smp)
			if !smp.Valid {
				s.Log.Errorf("%s heartbeat: %v", t.Format("15:04:05"), smp.Err)
				continue
			}
			s.Log.Infof("%s Heartbeat vol=%d cur=%d ocv=%d status=%s",
				t.Format("15:04:05"), smp.Voltage_mV, smp.Current_mA, smp.OCV_mV, smp.State)
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context) error {
	go s.serviceLoop(ctx)
	return nil
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) { s.serviceLoop(ctx) }
