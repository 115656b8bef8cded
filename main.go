package main

import "github.com/yoanbernabeu/phrasebot/cli"

func main() {
	cli.Execute()
}
