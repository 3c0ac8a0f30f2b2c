// Package main tunes draw and motion parameters with CMA-ES so headless
// frames reach a target brightness and coverage.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/steam/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	frames := flag.Int("frames", 120, "Frames per evaluation run")
	side := flag.Int("side", 64, "Particle grid side used while tuning")
	width := flag.Int("width", 320, "Viewport width used while tuning")
	height := flag.Int("height", 180, "Viewport height used while tuning")
	seeds := flag.Int("seeds", 2, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	brightness := flag.Float64("brightness", 0.05, "Target mean brightness in [0, 1]")
	coverage := flag.Float64("coverage", 0.15, "Target lit pixel fraction in [0, 1]")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	target := Target{Brightness: *brightness, Coverage: *coverage}
	evaluator := NewFitnessEvaluator(params, baseCfg, target, *side, *frames, *width, *height, evalSeeds)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	popSize := *population
	if popSize == 0 {
		// Auto-size: 4 + floor(3*ln(n))
		popSize = 4 + int(3*math.Log(float64(dim)))
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "brightness", "coverage"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			m := evaluator.LastMeasurement()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			row := []string{
				strconv.Itoa(evalCount),
				fmt.Sprintf("%.6f", fitness),
				fmt.Sprintf("%.4f", m.Brightness),
				fmt.Sprintf("%.4f", m.Coverage),
			}
			for _, v := range clamped {
				row = append(row, fmt.Sprintf("%.6f", v))
			}
			logWriter.Write(row)
			logWriter.Flush()

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: brightness=%.4f coverage=%.3f fitness=%.6f (best=%.6f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, m.Brightness, m.Coverage, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Target brightness=%.3f coverage=%.3f, %d frames at side %d\n",
		*brightness, *coverage, *frames, *side)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("tuning ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.6f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
