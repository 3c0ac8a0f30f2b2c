package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSimulate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDraw)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}
	if _, ok := stats.PhaseAvg[PhaseSimulate]; !ok {
		t.Error("expected simulate phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseDraw]; !ok {
		t.Error("expected draw phase to be tracked")
	}
	if stats.MinFrameDuration > stats.MaxFrameDuration {
		t.Errorf("min %v > max %v", stats.MinFrameDuration, stats.MaxFrameDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSwap)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}
	if stats.Capacity <= 0 {
		t.Error("expected positive capacity")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSwap)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseSimulate)
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseSimulate] <= stats.PhasePct[PhaseSwap] {
		t.Errorf("expected simulate (%v%%) > swap (%v%%)",
			stats.PhasePct[PhaseSimulate], stats.PhasePct[PhaseSwap])
	}

	row := stats.ToCSV(42)
	if row.WindowEnd != 42 || row.SimulatePct != stats.PhasePct[PhaseSimulate] {
		t.Errorf("csv row = %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_PresentRate(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartFrame()
	pc.EndFrame()
	time.Sleep(33 * time.Millisecond) // ~30fps
	pc.StartFrame()
	pc.EndFrame()

	stats := pc.Stats()
	if stats.PresentInterval < 30*time.Millisecond {
		t.Errorf("expected present interval >= 30ms, got %v", stats.PresentInterval)
	}
	if stats.FPS <= 0 || stats.FPS > 35 {
		t.Errorf("expected FPS in (0, 35], got %v", stats.FPS)
	}
}
