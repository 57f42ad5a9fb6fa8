// Command analyze runs the local analyzer on a single review text and
// prints the result as JSON. Useful for tuning the rule engine.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/guestpulse/insights/internal/analyzer"
	"github.com/guestpulse/insights/internal/cache"
	"github.com/guestpulse/insights/internal/sentiment"
)

func main() {
	text := flag.String("text", "", "review text (reads stdin when empty)")
	rating := flag.Int("rating", 3, "review rating, 1-5")
	flag.Parse()

	input := *text
	if input == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("read stdin: %v", err)
		}
		input = strings.TrimSpace(string(raw))
	}

	svc := analyzer.NewService(
		analyzer.NewEngine(),
		sentiment.NewChain(nil, sentiment.NewLexical()),
		cache.NewMemory(time.Minute),
		nil, nil,
	)

	result := svc.Analyze(context.Background(), input, *rating)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
