// Command quiz runs the sorting ceremony in the terminal against the same
// engine the API serves, which makes it handy for tuning the weight table.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Sainava/Wiz-Scholar/internal/catalog"
	"github.com/Sainava/Wiz-Scholar/internal/classifier"
	"github.com/Sainava/Wiz-Scholar/internal/config"
	"github.com/Sainava/Wiz-Scholar/internal/domain"
	"github.com/Sainava/Wiz-Scholar/internal/repository"
	"github.com/Sainava/Wiz-Scholar/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewNop()

	cat, err := catalog.LoadFile(cfg.QuestionsPath)
	if err != nil {
		log.Fatalf("load question bank: %v", err)
	}

	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		model = classifier.NoModel{}
	}

	svc := service.NewSortingService(logger, cat, repository.NewMemorySessionStore(), service.DefaultWeightTable(), model, nil)

	start, err := svc.Start(ctx, "")
	if err != nil {
		log.Fatalf("start session: %v", err)
	}

	fmt.Println("===== The Sorting Ceremony =====")
	question := start.FirstQuestion
	var last *domain.Prediction

	for question != nil {
		fmt.Printf("\n%s\n", question.Text)
		for i, opt := range question.Options {
			fmt.Printf("  [%d] %s\n", i+1, opt.Text)
		}

		choice := readChoice(reader, len(question.Options))
		result, err := svc.Answer(ctx, start.SessionID, question.ID, choice-1)
		if err != nil {
			log.Fatalf("answer: %v", err)
		}
		question = result.NextQuestion
		last = result.Prediction
	}

	if last == nil {
		fmt.Println("The hat has nothing to say: no questions were answered.")
		return
	}

	fmt.Printf("\nThe hat has decided: %s (%.0f%% sure)\n", last.House, last.Confidence*100)
	for _, h := range domain.Houses {
		fmt.Printf("  %-10s %5.1f%%\n", h, last.Probabilities[h]*100)
	}
	if last.Model != nil {
		fmt.Printf("model (%s) says %s\n", last.Model.ModelType, last.Model.House)
	}
}

func readChoice(reader *bufio.Reader, max int) int {
	for {
		fmt.Print("Your answer: ")
		line, _ := reader.ReadString('\n')
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= max {
			return n
		}
		fmt.Printf("Pick a number between 1 and %d.\n", max)
	}
}
