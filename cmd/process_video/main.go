package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vidquiz/internal/adapter"
	"vidquiz/internal/adapter/captions"
	"vidquiz/internal/adapter/generation"
	"vidquiz/internal/adapter/speech"
	"vidquiz/internal/cache"
	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/logger"
	"vidquiz/internal/service"

	"go.uber.org/zap"
)

// process_video runs the pipeline once for a single source URL and prints
// the resulting segments and questions as JSON.
func main() {
	sourceURL := flag.String("source", "", "video source URL (required)")
	timestampsArg := flag.String("timestamps", "", "comma-separated boundary timestamps in seconds")
	countsArg := flag.String("counts", "", "comma-separated desired question counts per segment")
	stylesArg := flag.String("styles", "", "comma-separated question styles per segment (analytical|case_study)")
	flag.Parse()

	if *sourceURL == "" {
		fmt.Fprintln(os.Stderr, "usage: process_video -source <url> [-timestamps 10,20,30] [-counts 3,3,3,3] [-styles analytical,case_study]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()
	appLogger := logger.Get()

	timestamps, err := parseFloats(*timestampsArg)
	if err != nil {
		appLogger.Fatal("Invalid -timestamps", zap.Error(err))
	}
	counts, err := parseInts(*countsArg)
	if err != nil {
		appLogger.Fatal("Invalid -counts", zap.Error(err))
	}
	styles, err := parseStyles(*stylesArg)
	if err != nil {
		appLogger.Fatal("Invalid -styles", zap.Error(err))
	}

	var generator domain.TextGenerator
	switch cfg.Generation.Source {
	case "openai":
		generator, err = generation.NewOpenAIGenerator(cfg.Generation.OpenAI.APIKey, cfg.Generation.OpenAI.Model, appLogger)
	case "ollama":
		generator, err = generation.NewOllamaGenerator(cfg.Generation.Ollama.ServerURL, cfg.Generation.Ollama.Model, appLogger)
	default:
		appLogger.Fatal("Unsupported generation source", zap.String("source", cfg.Generation.Source))
	}
	if err != nil {
		appLogger.Fatal("Failed to create text generator", zap.Error(err))
	}

	genClient := service.NewGenerationClient(generator, service.RetryPolicy{
		MaxAttempts: cfg.Pipeline.CallMaxAttempts,
		Backoff:     service.LinearBackoff(cfg.Pipeline.CallBackoffStep),
	}, nil, appLogger)

	var captionSource domain.CaptionSource
	if cfg.Captions.BaseURL != "" {
		captionSource, err = captions.NewHTTPCaptionSource(cfg.Captions.BaseURL, cfg.Captions.Timeout, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create caption source", zap.Error(err))
		}
	}

	var audioSource domain.AudioSource
	var stt domain.SpeechToText
	if cfg.Speech.ServerURL != "" {
		speechClient, err := speech.NewClient(cfg.Speech.ServerURL, cfg.Speech.Timeout, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create speech client", zap.Error(err))
		}
		audioSource = speechClient
		stt = speechClient
	}

	var contentIndex domain.ContentIndex
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		contentIndex = adapter.NewRedisContentIndex(redisClient, cfg.Pipeline.IndexTTL)
	}

	pipeline := service.NewVideoPipeline(captionSource, audioSource, stt, contentIndex, genClient, cfg, appLogger)

	result, err := pipeline.Process(context.Background(), domain.ProcessRequest{
		SourceURL:      *sourceURL,
		Timestamps:     timestamps,
		QuestionCounts: counts,
		Styles:         styles,
	})
	if err != nil {
		appLogger.Fatal("Pipeline run failed", zap.Error(err))
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		appLogger.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(out))
}

func splitArg(arg string) []string {
	if strings.TrimSpace(arg) == "" {
		return nil
	}
	return strings.Split(arg, ",")
}

func parseFloats(arg string) ([]float64, error) {
	var out []float64
	for _, part := range splitArg(arg) {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInts(arg string) ([]int, error) {
	var out []int
	for _, part := range splitArg(arg) {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseStyles(arg string) ([]domain.QuestionStyle, error) {
	var out []domain.QuestionStyle
	for _, part := range splitArg(arg) {
		style, err := domain.ParseQuestionStyle(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, style)
	}
	return out, nil
}
