package main

import "github.com/yuuchan-san/soundcloud-downloader/cmd"

func main() {
	cmd.Execute()
}
