package main

import (
	"os"

	"github.com/bkocaman/stagehand/cmd"

	_ "github.com/bkocaman/stagehand/internal/adapters/docker"
	_ "github.com/bkocaman/stagehand/internal/adapters/file"
	_ "github.com/bkocaman/stagehand/internal/adapters/identity"
	_ "github.com/bkocaman/stagehand/internal/adapters/java"
	_ "github.com/bkocaman/stagehand/internal/adapters/shell"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
