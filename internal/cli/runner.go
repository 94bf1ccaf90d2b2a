package cli

import (
	"context"
	"fmt"
	"strings"

	"coinfolio/internal/coinpaprika"
	"coinfolio/internal/config"
	"coinfolio/internal/portfolio"
	"coinfolio/internal/store/jsonstore"
	"coinfolio/internal/ui"
)

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// No subcommand means the interactive tracker.
func Run(args []string) int {
	if len(args) == 0 {
		args = []string{"tui"}
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "tui":
		return doTUI()

	case "ls":
		return doList()

	case "add":
		if len(a) < 2 {
			ui.Fail("usage: coinfolio add <coin name or id...> <amount>")
			return 2
		}
		return doAdd(strings.Join(a[:len(a)-1], " "), a[len(a)-1])

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: coinfolio rm <item-id>")
			return 2
		}
		return doRemove(a[0])

	case "refresh":
		if len(a) > 1 {
			ui.Fail("usage: coinfolio refresh [item-id]")
			return 2
		}
		id := ""
		if len(a) == 1 {
			id = a[0]
		}
		return doRefresh(id)

	case "total":
		return doTotal()

	case "clear":
		return doClear()

	case "theme":
		if len(a) != 1 || (a[0] != "dark" && a[0] != "light") {
			ui.Fail("usage: coinfolio theme <dark|light>")
			return 2
		}
		return doTheme(a[0] == "dark")
	}

	ui.Fail("unknown subcommand: " + cmd)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`coinfolio - track crypto holdings from the terminal

Usage:
  coinfolio [subcommand] [args]

Subcommands:
  tui                          Interactive tracker (default)
  ls                           Show holdings and total value
  add <coin...> <amount>       Add a holding, quoted at the current price
  rm <item-id>                 Remove a holding
  refresh [item-id]            Re-quote one holding, or all of them
  total                        Print the portfolio's total value
  clear                        Remove all holdings
  theme <dark|light>           Set the color theme

Examples:
  coinfolio add Bitcoin 0.25
  coinfolio add btc-bitcoin 0.25
  coinfolio refresh
  coinfolio ls
`)
}

func newStore() (*portfolio.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := config.NewLogger(cfg)
	client := coinpaprika.New(cfg.APIBaseURL, log)
	disk := jsonstore.New(cfg.DataDir, log)
	return portfolio.New(client, disk, log), nil
}

func doTUI() int {
	store, err := newStore()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if err := ui.Run(store); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doList() int {
	store, err := newStore()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	store.Rehydrate()

	st := store.Snapshot()
	if st.Err != "" {
		ui.Fail(st.Err)
	}
	if len(st.Items) == 0 {
		ui.Muted("portfolio is empty")
		return 0
	}

	lines := make([]string, 0, len(st.Items)+1)
	lines = append(lines, ui.Title("Holdings"))
	for _, it := range st.Items {
		lines = append(lines, fmt.Sprintf("%-12s  %-20s  %s × $%s = $%s",
			shortID(it.ID), it.CoinName, it.Amount.String(),
			it.Price.StringFixed(2), it.Value().StringFixed(2)))
	}
	lines = append(lines, fmt.Sprintf("Total: $%s", store.TotalValue().StringFixed(2)))
	ui.Panel(lines)
	return 0
}

// shortID abbreviates a uuid for display; rm still takes the full id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func doAdd(coinName, amountText string) int {
	store, err := newStore()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	store.Rehydrate()
	store.RefreshCatalog(context.Background())
	if st := store.Snapshot(); st.Err != "" && len(st.Coins) == 0 {
		ui.Fail(st.Err)
		return 1
	}

	coin, ok := store.CoinByName(coinName)
	if !ok {
		coin, ok = store.CoinByID(coinName)
	}
	if !ok {
		ui.Fail("unknown coin: " + coinName)
		return 2
	}

	store.SelectCoin(&coin)
	store.SetAmount(amountText)
	if !store.AddToPortfolio(context.Background()) {
		ui.Fail("amount must be a positive number: " + amountText)
		return 2
	}

	st := store.Snapshot()
	added := st.Items[len(st.Items)-1]
	ui.OK(fmt.Sprintf("added %s %s at $%s", added.Amount.String(), added.CoinName, added.Price.StringFixed(2)))
	return 0
}

func doRemove(itemID string) int {
	store, err := newStore()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	store.Rehydrate()

	before := len(store.Snapshot().Items)
	store.RemoveFromPortfolio(itemID)
	if len(store.Snapshot().Items) == before {
		ui.Muted("no holding with id " + itemID)
		return 0
	}
	ui.OK("removed")
	return 0
}

func doRefresh(itemID string) int {
	store, err := newStore()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	store.Rehydrate()

	if itemID == "" {
		store.RefreshAllPrices(context.Background())
	} else {
		store.RefreshPrice(context.Background(), itemID)
	}
	ui.OK(fmt.Sprintf("requoted — total $%s", store.TotalValue().StringFixed(2)))
	return 0
}

func doTotal() int {
	store, err := newStore()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	store.Rehydrate()
	fmt.Printf("$%s\n", store.TotalValue().StringFixed(2))
	return 0
}

func doClear() int {
	store, err := newStore()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	store.Rehydrate()
	store.ClearPortfolio()
	ui.OK("portfolio cleared")
	return 0
}

func doTheme(dark bool) int {
	store, err := newStore()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	store.Rehydrate()
	if store.Snapshot().DarkMode != dark {
		store.ToggleDarkMode()
	}
	ui.OK("theme saved")
	return 0
}
