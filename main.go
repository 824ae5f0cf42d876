package main

import (
	"github.com/joho/godotenv"

	"github.com/kmmelissat/analisis-al-instante/cmd"
)

func main() {
	// optional .env with INSTANTE_* overrides
	_ = godotenv.Load()
	cmd.Execute()
}
