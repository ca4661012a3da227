package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/tbxark/bookingagent/agent"
	"github.com/tbxark/bookingagent/schedule"
)

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	flag.Parse()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := startApp(context.Background(), config); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, config *Config) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	if err := seedSchedule(config.ScheduleCSV); err != nil {
		return err
	}
	backend := schedule.NewCSVBackend(config.ScheduleCSV)

	var flow *agent.Flow
	if config.APIKey != "" {
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  config.APIKey,
			Model:   config.Model,
			BaseURL: config.BaseURL,
		})
		if err != nil {
			return err
		}
		flow, err = agent.NewToolBasedFlow(backend, cm)
		if err != nil {
			return err
		}
	} else {
		fmt.Println("(no api_key configured, running with keyword understanding only)")
		flow = agent.NewFlow(backend)
	}

	sessions := agent.NewMemorySessionStore()
	history := agent.NewMemoryHistoryStore(agent.KeepSystemLastNTrimmer{N: 50})
	bookingAgent := agent.NewAgent(
		"AppointmentDesk",
		"An agent that books, checks and cancels appointments via conversation",
		flow,
		sessions,
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: bookingAgent,
	})

	chatCtx := agent.WithConversationID(ctx, uuid.NewString())
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Welcome to the appointment desk. You can book, check or cancel an appointment.")
	for {
		fmt.Print("you: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("input closed, bye.")
			break
		}
		input = strings.TrimSpace(input)
		messages, rErr := history.Append(chatCtx, schema.UserMessage(input))
		if rErr != nil {
			return rErr
		}
		iter := runner.Run(chatCtx, messages)
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				return event.Err
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				return mErr
			}
			if _, aErr := history.Append(chatCtx, msg); aErr != nil {
				return aErr
			}
			fmt.Printf("\ndesk: %v\n======\n", msg.Content)
		}
	}
	return nil
}

// seedSchedule writes a small schedule for the coming week so a fresh run
// has something to book.
func seedSchedule(path string) error {
	slots := map[string][]string{}
	day := time.Now()
	for i := 1; i <= 7; i++ {
		date := day.AddDate(0, 0, i).Format("2006-01-02")
		slots[date] = []string{"09:00", "10:00", "11:00", "14:00", "15:00"}
	}
	return schedule.Seed(path, slots)
}
