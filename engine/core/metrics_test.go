package core

import (
	"math"
	"testing"
	"time"
)

func TestMetricsAverageAndFPS(t *testing.T) {
	m := NewMetrics()
	// 60 frames of 1/60s crosses the one second mark once.
	for i := 0; i < 61; i++ {
		m.Update(1.0 / 60.0)
	}
	if math.Abs(m.FrameTime()-1000.0/60.0) > 1e-6 {
		t.Fatalf("frame time = %f", m.FrameTime())
	}
	if m.FPS() < 59 || m.FPS() > 61 {
		t.Fatalf("fps = %f", m.FPS())
	}
}

func TestClockMeasuresSeconds(t *testing.T) {
	c := NewClock()
	c.Update()
	if c.Elapsed() != 0 {
		t.Fatal("unstarted clock should not advance")
	}
	c.Start()
	time.Sleep(10 * time.Millisecond)
	c.Update()
	if e := c.Elapsed(); e < 0.005 || e > 5 {
		t.Fatalf("elapsed = %f seconds", e)
	}
	c.Stop()
	stopped := c.Elapsed()
	time.Sleep(2 * time.Millisecond)
	c.Update()
	if c.Elapsed() != stopped {
		t.Fatal("stopped clock kept advancing")
	}
}

func TestLogSetLevel(t *testing.T) {
	if err := LogSetLevel("debug"); err != nil {
		t.Fatal(err)
	}
	if !LogIsDebug() {
		t.Fatal("debug level not applied")
	}
	if err := LogSetLevel("chatty"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	_ = LogSetLevel("info")
}
