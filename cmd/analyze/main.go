// Command analyze runs one image from disk through the mould triage pipeline
// and prints the model answer.
//
//	analyze [-timeout 2m] <image.jpg>
//
// Without an argument it asks for the path on stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bryanwahyu/mould-triage/internal/application"
	apptriage "github.com/bryanwahyu/mould-triage/internal/application/triage"
	"github.com/bryanwahyu/mould-triage/internal/config"
	domain "github.com/bryanwahyu/mould-triage/internal/domain/triage"
	"github.com/bryanwahyu/mould-triage/internal/infra/ai/openai"
	"github.com/bryanwahyu/mould-triage/internal/infra/queue"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "deadline for the model call and the publish")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	path := flag.Arg(0)
	if path == "" {
		path, err = promptPath()
		if err != nil {
			log.Fatalf("read path: %v", err)
		}
	}

	vision, err := openai.NewAzureClient(openai.Config{
		Endpoint:   cfg.Vision.Endpoint,
		APIKey:     cfg.Vision.APIKey,
		Deployment: cfg.Vision.Deployment,
		APIVersion: cfg.Vision.APIVersion,
	})
	if err != nil {
		log.Fatalf("vision client error: %v", err)
	}
	publisher, err := queue.Open(cfg.Queue.ConnectionString)
	if err != nil {
		log.Fatalf("queue init error: %v", err)
	}

	svc := &apptriage.Service{
		Vision:    vision,
		Publisher: publisher,
		Queues:    cfg.Queue.Names,
		Clock:     application.SystemClock{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, err := svc.AnalyzeFile(ctx, path)
	code := report(out, err)
	cancel()
	os.Exit(code)
}

func promptPath() (string, error) {
	fmt.Print("Enter image path: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no image path given")
	}
	return line, nil
}

// report prints the outcome and returns the exit code.
func report(out *domain.Outcome, err error) int {
	if out != nil && out.Result != "" {
		fmt.Printf("Analysis result: %s\n", out.Result)
	}
	if out != nil && out.Label != "" {
		fmt.Printf("Classification: %s\n", out.Label)
	}
	switch {
	case err == nil:
		fmt.Printf("Message sent to queue: %s\n", out.Queue)
		return 0
	case errors.Is(err, domain.ErrQueuePublishFailed):
		fmt.Fprintf(os.Stderr, "Classified, but not delivered to queue %s: %v\n", out.Queue, err)
		return 3
	case errors.Is(err, domain.ErrModelCallFailed):
		fmt.Fprintf(os.Stderr, "Error in analysis: %v\n", err)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}
