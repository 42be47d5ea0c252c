// Copyright 2025 Patter AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/patter-ai/patter"
	"github.com/patter-ai/patter/core"
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <agent-id> <query...>\n", os.Args[0])
		os.Exit(1)
	}

	db, err := patter.NewDatabase("./patter_db")
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()
	agentID := core.ID(os.Args[1])
	query := strings.Join(os.Args[2:], " ")

	results, err := db.Retriever().SearchHybrid(ctx, agentID, query, 5)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' (doc %s)[%0.3f]\n", i, hit.Chunk.Content, hit.Chunk.DocumentId, hit.Score)
	}
}
