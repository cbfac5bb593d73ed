package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	moondream "github.com/moondream-ai/moondream-go"
	"github.com/moondream-ai/moondream-go/internal/config"
	"github.com/moondream-ai/moondream-go/internal/imgutil"
	"github.com/moondream-ai/moondream-go/internal/overlay"
)

// tokenEnv is the environment variable holding the API key for the hosted
// service. A .env file in the working directory is honored.
const tokenEnv = "MOONDREAM_API_KEY"

func main() {
	var in, op, object, question, length string
	var endpoint, token, configPath, outDir string
	var timeout int
	var sendFmt string
	var sendSize, sendQ int
	var annotate, crop bool

	flag.StringVar(&in, "in", "", "input image: file path, URL or data URI")
	flag.StringVar(&op, "op", "query", "operation: point|detect|caption|query")
	flag.StringVar(&object, "object", "", "object to locate (point/detect)")
	flag.StringVar(&question, "question", "", "question to ask (query)")
	flag.StringVar(&length, "length", "", "caption length: short|normal (caption)")

	flag.StringVar(&endpoint, "endpoint", "", "base endpoint (default from config, or the hosted service)")
	flag.StringVar(&token, "token", "", "API token (default $"+tokenEnv+")")
	flag.IntVar(&timeout, "timeout", 0, "request timeout in seconds (default from config)")
	flag.StringVar(&configPath, "config", "", "config file path (JSON)")

	flag.StringVar(&sendFmt, "sendfmt", "", "upload format for local files: jpg|png|webp")
	flag.IntVar(&sendSize, "sendsize", -1, "max long side for uploads (px), 0=original")
	flag.IntVar(&sendQ, "sendq", 0, "upload JPEG/WebP quality (1-100)")

	flag.StringVar(&outDir, "out", "", "output directory for annotated/cropped images")
	flag.BoolVar(&annotate, "annotate", false, "write an annotated copy of the input (point/detect)")
	flag.BoolVar(&crop, "crop", false, "write one cropped image per detected object (detect)")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.jpg|URL -op point|detect|caption|query [-object obj] [-question q] [-length short|normal]", filepath.Base(os.Args[0]))
	}

	// Environment and config file provide defaults; flags override.
	_ = godotenv.Load()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	applyFlags(cfg, endpoint, timeout, sendFmt, sendSize, sendQ, outDir)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if token == "" {
		token = os.Getenv(tokenEnv)
	}

	client := moondream.New(token).
		WithEndpoint(cfg.Connection.Endpoint).
		WithTimeout(time.Duration(cfg.Connection.TimeoutSeconds) * time.Second)

	// Local files are encoded to data URIs; URLs and data URIs pass through.
	imageRef := in
	var localImg image.Image
	if !imgutil.IsRemoteURL(in) {
		img, err := imgutil.LoadImage(in)
		if err != nil {
			log.Fatal(err)
		}
		localImg = img

		uri, err := imgutil.DataURI(img, cfg.Send.Format, cfg.Send.MaxSize, cfg.Send.Quality)
		if err != nil {
			log.Fatal(err)
		}
		imageRef = uri
	}

	ctx := context.Background()

	var result any
	var points []moondream.Point
	var boxes []moondream.BoundingBox

	switch op {
	case "point":
		if object == "" {
			log.Fatal("-object is required for -op point")
		}
		r, err := client.Points(ctx, imageRef, object)
		if err != nil {
			log.Fatal(err)
		}
		result, points = r, r.Points
	case "detect":
		if object == "" {
			log.Fatal("-object is required for -op detect")
		}
		r, err := client.Detect(ctx, imageRef, object)
		if err != nil {
			log.Fatal(err)
		}
		result, boxes = r, r.Objects
	case "caption":
		r, err := client.Caption(ctx, imageRef, captionLength(length))
		if err != nil {
			log.Fatal(err)
		}
		result = r
	case "query":
		if question == "" {
			log.Fatal("-question is required for -op query")
		}
		r, err := client.Query(ctx, imageRef, question)
		if err != nil {
			log.Fatal(err)
		}
		result = r
	default:
		log.Fatalf("Unknown operation: %s (use point, detect, caption or query)", op)
	}

	js, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(js))

	if !annotate && !crop {
		return
	}
	if localImg == nil {
		log.Fatal("-annotate and -crop require a local input file")
	}
	if err := imgutil.EnsureDir(cfg.Output.Dir); err != nil {
		log.Fatal(err)
	}

	base := imgutil.BaseName(in)
	ext := strings.ToLower(cfg.Output.Format)

	if annotate {
		var annotated image.Image
		switch op {
		case "point":
			annotated = overlay.DrawPoints(localImg, points)
		case "detect":
			annotated = overlay.DrawBoxes(localImg, boxes)
		default:
			log.Fatalf("-annotate needs -op point or detect, got %s", op)
		}

		path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("%s_annotated.%s", base, ext))
		if err := imgutil.SaveImage(annotated, path, ext, cfg.Output.Quality, cfg.Output.Lossless); err != nil {
			log.Fatalf("annotate save failed: %v", err)
		}
		log.Printf("wrote %s", path)
	}

	if crop {
		if op != "detect" {
			log.Fatalf("-crop needs -op detect, got %s", op)
		}
		for i, box := range boxes {
			cropped, err := imgutil.CropToBox(localImg, box, 0, 0)
			if err != nil {
				log.Printf("crop %d failed: %v", i+1, err)
				continue
			}

			path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("%03d_%s_%s.%s", i+1, base, object, ext))
			if err := imgutil.SaveImage(cropped, path, ext, cfg.Output.Quality, cfg.Output.Lossless); err != nil {
				log.Printf("save %s failed: %v", path, err)
			} else {
				log.Printf("wrote %s", path)
			}
		}
	}
}

// applyFlags overlays explicitly set connection/send/output flags onto cfg.
func applyFlags(cfg *config.Config, endpoint string, timeout int, sendFmt string, sendSize, sendQ int, outDir string) {
	if endpoint != "" {
		cfg.Connection.Endpoint = endpoint
	}
	if timeout > 0 {
		cfg.Connection.TimeoutSeconds = timeout
	}
	if sendFmt != "" {
		cfg.Send.Format = sendFmt
	}
	if sendSize >= 0 {
		cfg.Send.MaxSize = sendSize
	}
	if sendQ > 0 {
		cfg.Send.Quality = sendQ
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
}

func captionLength(s string) moondream.CaptionLength {
	switch strings.ToLower(s) {
	case "short":
		return moondream.CaptionShort
	case "normal":
		return moondream.CaptionNormal
	case "":
		return ""
	default:
		log.Fatalf("Unknown caption length: %s (use short or normal)", s)
		return ""
	}
}
