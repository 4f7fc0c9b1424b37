package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/mogaika/vrm_browser/config"
	"github.com/mogaika/vrm_browser/export"
	"github.com/mogaika/vrm_browser/utils"
	"github.com/mogaika/vrm_browser/vrm"
	"github.com/mogaika/vrm_browser/web"
)

func main() {
	var input, output, extract, addr, cfgPath string
	var verbose bool
	flag.StringVar(&input, "input", "", "Path to .vrm/.glb file to inspect")
	flag.StringVar(&output, "output", "", "Path to write demo .glb file")
	flag.StringVar(&extract, "extract", "", "Directory for per-primitive glb fragments and png images")
	flag.StringVar(&addr, "i", "", "Address of model viewer server, for example :8000")
	flag.StringVar(&cfgPath, "cfg", "", "Path to yaml config file")
	flag.BoolVar(&verbose, "v", false, "Dump full document structures")
	flag.Parse()

	if cfgPath != "" {
		if err := config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			log.Fatal(err)
		}
		err = export.WriteDemo(f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote %q", output)
		return
	}

	if input == "" {
		flag.PrintDefaults()
		return
	}

	m, err := vrm.LoadFile(input)
	if err != nil {
		log.Fatal(err)
	}

	if err := m.Report(os.Stdout); err != nil {
		log.Fatal(err)
	}
	if verbose || config.Current().VerboseReport {
		utils.Dump(m.Doc)
	}

	if extract != "" {
		dir := extract
		if dir == "auto" {
			dir = strings.TrimSuffix(input, ".vrm")
			dir = strings.TrimSuffix(dir, ".glb") + "." + config.Current().ExtractSuffix
		}
		if err := export.ExtractImages(m, dir); err != nil {
			log.Fatal(err)
		}
		if err := export.ExtractPrimitives(m, dir); err != nil {
			log.Fatal(err)
		}
	}

	if addr != "" {
		if addr == "cfg" {
			addr = config.Current().ListenAddr
		}
		if err := web.StartServer(addr, m); err != nil {
			log.Fatal(err)
		}
	}
}
