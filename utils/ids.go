package utils

import (
	"log"

	"github.com/google/uuid"
)

func GenerateID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		log.Fatal("Failed to generate a unique ID", err)
	}
	return id.String()
}
