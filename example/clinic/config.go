package main

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	ScheduleCSV string `json:"schedule_csv"`
}

// loadConfig reads config.json and fills gaps from the environment, loading
// a .env file first when one is present.
func loadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var conf Config
	file, err := os.ReadFile(path)
	if err == nil {
		if jErr := json.Unmarshal(file, &conf); jErr != nil {
			return nil, jErr
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if conf.APIKey == "" {
		conf.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if conf.BaseURL == "" {
		conf.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if conf.Model == "" {
		conf.Model = os.Getenv("OPENAI_MODEL")
	}
	if conf.ScheduleCSV == "" {
		conf.ScheduleCSV = "appointments.csv"
	}
	return &conf, nil
}
