package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/patter-ai/patter"
	"github.com/patter-ai/patter/core"
)

// Demo corpus for a fictional moving company, one passage per paragraph.
var passages = []string{
	"Acme Movers handles local and long-distance moves for apartments, houses, and offices. Local moves are billed hourly with a two-hour minimum; long-distance moves receive a flat quote after a walkthrough.",
	"Piano and safe moving is a specialty service. Upright pianos travel on padded dollies; grand pianos are partially disassembled and crated. Both require booking at least one week in advance.",
	"Weekend slots fill up fast, especially at the end of the month. Booking two to three weeks ahead guarantees your preferred date. Weekday morning moves are discounted ten percent.",
	"Every move includes basic valuation coverage at no cost. Full replacement protection is available for high-value items; an inventory with photos must be completed before moving day.",
	"Packing services can be added to any move. A two-person crew packs a one-bedroom apartment in about three hours. Boxes, tape, and paper are included in the packing fee.",
	"Storage is available at our climate-controlled warehouse for moves with a gap between move-out and move-in dates. The first week of storage is free on any interstate move.",
	"Cancellations made more than 72 hours before the scheduled move incur no fee. Later cancellations forfeit the deposit, which is otherwise applied to the final bill.",
	"Our service area covers the entire metro region plus interstate corridors to neighboring states. Rural pickups outside the metro add a travel surcharge quoted in advance.",
}

const leadSchemaJSON = `{"sections":[{"id":"lead","title":"Lead","questions":[
	{"id":"name","label":"Full Name","type":"text","required":true},
	{"id":"phone","label":"Phone","type":"tel","required":true},
	{"id":"move_date","label":"Move Date","type":"date","required":true},
	{"id":"move_size","label":"Move Size","type":"select","required":false}
]}]}`

var seedFileName = flag.String("src", "", "file of seed passages, one paragraph per line")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

func main() {
	db, err := patter.NewDatabase("./patter_db")
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()

	agent, err := db.AgentRepository().AddAgent(ctx, &core.Agent{
		Name:               "Acme Movers",
		Status:             core.AgentStatusActive,
		WelcomeMessage:     "Hi! I'm the Acme Movers assistant. Ask me anything about your move.",
		PostCollectionText: "Thanks! Our team will reach out with a quote within one business day.",
		LeadSchemaJSON:     leadSchemaJSON,
	})
	if err != nil {
		panic(err)
	}

	for _, vendor := range []*core.Vendor{
		{
			AgentId: agent.Id,
			Name:    "Metro Crew",
			Status:  core.VendorStatusActive,
			Criteria: []core.VendorCriterion{
				{Field: "move_size", Equals: []string{"studio", "1-bedroom"}},
			},
		},
		{
			AgentId: agent.Id,
			Name:    "Heavy Haulers",
			Status:  core.VendorStatusActive,
		},
	} {
		if _, err := db.VendorRepository().AddVendor(ctx, vendor); err != nil {
			panic(err)
		}
	}

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	source := linesFromSlice(passages)
	if *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	}

	var body strings.Builder
	for line := range source {
		if strings.TrimSpace(line) == "" {
			continue
		}
		body.WriteString(line)
		body.WriteString("\n\n")
	}

	doc, err := pipeline.IngestText(ctx, agent.Id, "Acme Movers FAQ", "seeder", body.String())
	if err != nil {
		panic(err)
	}

	fmt.Printf("Seeded agent %s with document %s\n", agent.Id, doc.Id)
}
