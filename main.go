// Command octet runs CHIP-8 programs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/retroenv/retrogolib/buildinfo"

	"github.com/nf/octet/vip"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

func main() {
	log.SetPrefix("octet: ")
	log.SetFlags(0)

	var (
		cliFlag      = flag.Bool("cli", false, "draw in the terminal instead of a window")
		devFlag      = flag.Bool("dev", false, "enable developer mode (restart the program when the file changes)")
		debugFlag    = flag.Bool("debug", false, "enable debugger (implies -dev)")
		hzFlag       = flag.Int("hz", 60, "instructions executed per `second`")
		blockKeyFlag = flag.Bool("block_key", false, "make LD Vx, K wait until a key is held")
		fgFlag       = flag.String("fg", "ffffff", "foreground `color` as hex RGB")
		bgFlag       = flag.String("bg", "000000", "background `color` as hex RGB")
		scaleFlag    = flag.Int("scale", 10, "initial window size as a multiple of 64x32")
		versionFlag  = flag.Bool("version", false, "print version information and exit")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-cli] [-hz n] <program.ch8>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [-cli] <-dev | -debug> <program.ch8>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if *versionFlag {
		fmt.Printf("octet %s\n", buildinfo.Version(version, commit, date))
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
	}

	cfg, err := config(*cliFlag, *debugFlag, *hzFlag, *scaleFlag, *blockKeyFlag, *fgFlag, *bgFlag)
	if err != nil {
		log.Fatal(err)
	}

	stopProfile := func() {}
	if prof := *cpuProfileFlag; prof != "" {
		if stopProfile, err = startProfile(prof); err != nil {
			log.Fatal(err)
		}
	}

	var code int
	if *devFlag || *debugFlag {
		code, err = devMode(cfg, *debugFlag, flag.Arg(0))
	} else {
		code, err = run(flag.Arg(0), cfg)
	}

	stopProfile()

	if err != nil {
		log.Fatal(err)
	}
	os.Exit(code)
}

// startProfile writes a CPU profile to file until stop is called.
func startProfile(file string) (stop func(), err error) {
	f, err := os.Create(file)
	if err != nil {
		return nil, fmt.Errorf("creating CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// config builds the runner configuration from the command line flags.
func config(cli, debug bool, hz, scale int, blockKey bool, fg, bg string) (cfg vip.Config, err error) {
	if hz <= 0 {
		return cfg, fmt.Errorf("-hz must be positive, got %d", hz)
	}
	if scale <= 0 {
		return cfg, fmt.Errorf("-scale must be positive, got %d", scale)
	}
	if cfg.FG, err = vip.ParseColor(fg); err != nil {
		return cfg, fmt.Errorf("-fg: %w", err)
	}
	if cfg.BG, err = vip.ParseColor(bg); err != nil {
		return cfg, fmt.Errorf("-bg: %w", err)
	}
	cfg.Hz = hz
	cfg.Scale = scale
	cfg.BlockKeyWait = blockKey
	switch {
	case !cli:
		cfg.Display = vip.GUIDisplay
	case debug:
		// The debugger owns the terminal.
		cfg.Display = vip.NoDisplay
	default:
		cfg.Display = vip.TermDisplay
	}
	return cfg, nil
}

func run(romFile string, cfg vip.Config) (int, error) {
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return 0, err
	}
	return vip.NewRunner(cfg, nil).Run(rom)
}
