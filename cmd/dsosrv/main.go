package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/openwave-gw/godso/framerec"
	"github.com/openwave-gw/godso/generichttp"
	"github.com/openwave-gw/godso/gwinstek"
	"github.com/openwave-gw/godso/server/middleware/locker"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/tarm/serial"

	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "dso-http.yml"
	k              = koanf.New(".")
)

type recorder struct {
	// Root is the root folder to write to
	Root string `yaml:"Root"`

	// Prefix is the filename prefix to use
	Prefix string `yaml:"Prefix"`
}

type config struct {
	Addr         string   `yaml:"Addr"`
	Root         string   `yaml:"Root"`
	ScopeAddr    string   `yaml:"ScopeAddr"`
	Serial       bool     `yaml:"Serial"`
	CountsPerDiv float64  `yaml:"CountsPerDiv"`
	CodeCenter   int      `yaml:"CodeCenter"`
	Recorder     recorder `yaml:"Recorder"`
}

func setupconfig() {
	k.Load(structs.Provider(config{
		Addr:         ":8000",
		Root:         "/",
		ScopeAddr:    fmt.Sprintf("192.168.0.100:%d", gwinstek.DefaultPort),
		CountsPerDiv: 25,
		CodeCenter:   128,
		Recorder:     recorder{}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `dso-http exposes control of GW Instek MPO-series oscilloscopes over HTTP
This enables a server-client architecture,
and the clients can leverage the excellent HTTP
libraries for any programming language,
instead of custom socket logic.

Usage:
	dso-http <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `dso-http is amenable to configuration via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

When no configuration is provided, the defaults are used.  The command mkconf
generates the configuration file with the default values.

ScopeAddr is the LAN address of the instrument; the MPO listens for SCPI on
port 32767.  Set Serial: true to use an RS232 link instead, with ScopeAddr
holding the device path, e.g. /dev/ttyUSB0.

CountsPerDiv and CodeCenter describe the instrument's ADC geometry and only
need to change for hardware revisions that differ from 25 counts/division
with a mid-scale code of 128.

POST to /lock (json {"bool": true}) to keep other clients from disturbing
the trigger setup during a long acquisition.`
	fmt.Println(str)
}

func mkconf() {
	c := config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	err = yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("dso-http version %v\n", Version)
}

func run() {
	cfg := config{}
	k.Unmarshal("", &cfg)

	var scope *gwinstek.Scope
	if cfg.Serial {
		scope = gwinstek.NewScopeSerial(&serial.Config{Name: cfg.ScopeAddr, Baud: 115200})
	} else {
		scope = gwinstek.NewScope(cfg.ScopeAddr)
	}
	scope.CountsPerDiv = cfg.CountsPerDiv
	scope.CodeCenter = cfg.CodeCenter

	idn, err := scope.Idn()
	if err != nil {
		log.Fatalf("no response from scope at %s: %v", cfg.ScopeAddr, err)
	}
	log.Println("connected to", idn)

	w := gwinstek.NewHTTPWrapper(scope)
	rec := &framerec.Recorder{Root: cfg.Recorder.Root, Prefix: cfg.Recorder.Prefix}
	framerec.NewHTTPWrapper(rec).Inject(w)
	lock := locker.New()
	locker.Inject(w, lock)

	hndlrS := generichttp.SubMuxSanitize(cfg.Root)
	root := chi.NewRouter()
	root.Use(middleware.Logger)
	mux := chi.NewRouter()
	mux.Use(lock.Check)
	root.Mount(hndlrS, mux)
	w.RT().Bind(mux)
	log.Println("now listening for requests at", cfg.Addr+hndlrS)
	log.Fatal(http.ListenAndServe(cfg.Addr, root))
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "run":
		run()
		return
	case "version":
		pversion()
		return
	default:
		log.Fatal("unknown command")
	}
}
