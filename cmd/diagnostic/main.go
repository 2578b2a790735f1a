// File: cmd/diagnostic/main.go
// Live smoke test for the Gemini generation backends. Run it manually against
// real credentials before deploying; it is not part of the server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vikihealth/viki-backend/internal/domain"
	"github.com/vikihealth/viki-backend/internal/services"
	"github.com/vikihealth/viki-backend/internal/services/ai"
)

func main() {
	fmt.Println("Testing Gemini generation backends...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	project := os.Getenv("GOOGLE_CLOUD_PROJECT")
	location := os.Getenv("GOOGLE_CLOUD_LOCATION")
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if project == "" && apiKey == "" {
		log.Fatal("GOOGLE_CLOUD_PROJECT or GOOGLE_API_KEY must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	models, err := ai.NewModelsClient(ctx, ai.ClientConfig{
		Project:  project,
		Location: location,
		APIKey:   apiKey,
	})
	if err != nil {
		log.Fatalf("Client creation failed: %v", err)
	}

	factory := ai.NewFactory(models, false, services.NewLogger("diagnostic"))
	turns := []domain.ChatTurn{
		{Role: domain.RoleUser, Text: "In one sentence, what is a SOAP note?"},
	}

	for _, backend := range []string{ai.BackendGemini, ai.BackendMedicalLM} {
		service, err := factory.Resolve(backend)
		if err != nil {
			log.Fatalf("Backend %s resolution failed: %v", backend, err)
		}

		reply, err := service.GenerateResponse(ctx, ai.Request{Turns: turns})
		if err != nil {
			log.Fatalf("Backend %s generation failed: %v", backend, err)
		}
		fmt.Printf("[%s] whole response: %s\n", backend, reply)

		fmt.Printf("[%s] streamed response: ", backend)
		err = service.GenerateStream(ctx, ai.Request{Turns: turns}, func(delta string) error {
			fmt.Print(delta)
			return nil
		})
		if err != nil {
			log.Fatalf("Backend %s streaming failed: %v", backend, err)
		}
		fmt.Println()
	}

	fmt.Println("All backends OK")
}
