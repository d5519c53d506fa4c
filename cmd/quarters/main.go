// Command quarters plays a game headlessly for a number of turns and prints
// the quarterly results as a table.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"airline_tycoon/internal/config"
	"airline_tycoon/internal/game"
	"airline_tycoon/internal/logging"
	"airline_tycoon/internal/rand"
)

var (
	header = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	plain  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	loss   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	border = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	turns := flag.Int("turns", 40, "number of quarters to play")
	seed := flag.Int64("seed", 1, "random seed")
	buy := flag.String("buy", "", "comma-separated airport codes to acquire before play")
	routes := flag.String("routes", "", "comma-separated FROM-TO routes, each flown by the next idle aircraft at 7 flights a week")
	verbose := flag.Bool("v", false, "log to ./logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	lg := logging.Discard()
	if *verbose {
		if lg, err = logging.New(cfg.LogDir, cfg.LogLevel, false); err != nil {
			fmt.Fprintf(os.Stderr, "logging: %v\n", err)
			os.Exit(1)
		}
	}
	defer lg.Close()

	cat, err := cfg.Catalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
		os.Exit(1)
	}
	engine := game.NewEngine(cat, cfg.Rules(), rand.New(*seed), lg.Logger)

	if err := opening(engine, splitList(*buy), splitList(*routes)); err != nil {
		fmt.Fprintf(os.Stderr, "opening: %v\n", err)
		os.Exit(1)
	}

	rows := make([][]string, 0, *turns)
	var last game.TurnOutcome
	for range *turns {
		out, err := engine.AdvanceTurn()
		if err != nil {
			break
		}
		st := engine.State()
		rows = append(rows, []string{
			fmt.Sprintf("Q%d %d", out.Report.Quarter, out.Report.Year),
			game.FormatMoney(out.Report.Revenue),
			game.FormatMoney(out.Report.Expense),
			game.FormatMoney(out.Report.Profit),
			game.FormatMoney(st.Cash),
			fmt.Sprintf("%d", st.Reputation),
			out.Event,
		})
		last = out
		if out.Bankrupt {
			break
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(false).
		Headers("Quarter", "Revenue", "Expense", "Profit", "Cash", "Rep", "Event").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 3 && strings.HasPrefix(rows[row][col], "-") {
				return loss
			}
			return plain
		})
	fmt.Println(t.Render())

	st := engine.State()
	switch {
	case last.Bankrupt:
		fmt.Println(loss.Render(fmt.Sprintf("Bankrupt in Q%d %d", st.Quarter, st.Year)))
	case last.Victory:
		fmt.Println(header.Render(fmt.Sprintf("Reached %d with score %d", st.Year, last.Score)))
	default:
		fmt.Printf("Q%d %d: %d aircraft, %d routes, %d airports\n",
			st.Quarter, st.Year, len(st.Fleet), len(st.Routes), st.OwnedAirportCount())
	}
}

// opening applies the scripted first moves.
func opening(e *game.Engine, airports, routes []string) error {
	for _, code := range airports {
		if _, err := e.BuyAirportSlot(code); err != nil {
			return err
		}
	}
	for _, r := range routes {
		from, to, ok := strings.Cut(r, "-")
		if !ok {
			return fmt.Errorf("route %q: want FROM-TO", r)
		}
		id := 0
		for _, ac := range e.State().Fleet {
			if !ac.Assigned() {
				id = ac.ID
				break
			}
		}
		if id == 0 {
			return fmt.Errorf("route %s: no idle aircraft", r)
		}
		if _, err := e.CreateRoute(from, to, id, 7); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
