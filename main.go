package main

import "github.com/Esysc/cloudflare-ddns/cmd"

func main() {
	cmd.Execute()
}
