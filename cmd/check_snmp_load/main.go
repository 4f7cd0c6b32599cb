package main

import (
	"os"

	"github.com/logingood/yt-snmp-checks/config"
	"github.com/logingood/yt-snmp-checks/worker"
)

func main() {
	os.Exit(worker.Main("check_snmp_load", config.ParseLoad, os.Args[1:], os.Stdout, os.Stderr))
}
