package main

import "github.com/urfave/cli/v2"

var status = cli.Command{
	Name:   "status",
	Usage:  "returns info about the status of the daemon",
	Action: statusAction,
}

var wallets = cli.Command{
	Name:   "wallets",
	Usage:  "lists all wallets and the active wallet selection",
	Action: walletsAction,
}

var accounts = cli.Command{
	Name:  "accounts",
	Usage: "lists accounts, all of them or only the active wallet's",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "active",
			Usage: "restrict to the accounts of the active wallet",
		},
	},
	Action: accountsAction,
}

var transactions = cli.Command{
	Name:   "transactions",
	Usage:  "lists the transactions involving known accounts",
	Action: transactionsAction,
}

var network = cli.Command{
	Name:   "network",
	Usage:  "returns the last known network status",
	Action: networkAction,
}

func statusAction(ctx *cli.Context) error {
	return getJSON(ctx, "/v1/status")
}

func walletsAction(ctx *cli.Context) error {
	return getJSON(ctx, "/v1/wallets")
}

func accountsAction(ctx *cli.Context) error {
	path := "/v1/accounts"
	if ctx.Bool("active") {
		path += "?active=true"
	}
	return getJSON(ctx, path)
}

func transactionsAction(ctx *cli.Context) error {
	return getJSON(ctx, "/v1/transactions")
}

func networkAction(ctx *cli.Context) error {
	return getJSON(ctx, "/v1/network")
}
