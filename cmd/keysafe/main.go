package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "keysafe CLI"
	app.Usage = "Command line interface for keysafed daemon operators"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "rpcserver",
			Usage: "keysafed daemon address host:port",
			Value: "localhost:9310",
		},
	}
	app.Commands = append(
		app.Commands,
		&status,
		&wallets,
		&accounts,
		&transactions,
		&network,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getJSON(ctx *cli.Context, path string) error {
	url := fmt.Sprintf("http://%s%s", ctx.String("rpcserver"), path)
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon answered %s: %s", resp.Status, string(body))
	}

	printRespJSON(body)
	return nil
}

func printRespJSON(body []byte) {
	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		fmt.Println(string(body))
		return
	}
	pretty, _ := json.MarshalIndent(out, "", "\t")
	fmt.Println(string(pretty))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[keysafe] %v\n", err)
	os.Exit(1)
}
