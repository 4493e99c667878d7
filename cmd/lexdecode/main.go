// Package main is the lexdecode command line driver: a hand-rolled
// `-<letter><value>` argument parser (the format has no space between
// flag and value and every option is repeatable/order-sensitive, which
// the standard flag package cannot express) that snapshots the current
// option set into a Task each time a bare ciphertext argument appears.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lexdecode/lexdecode/internal/logger"
	"github.com/lexdecode/lexdecode/internal/utils"
	"github.com/lexdecode/lexdecode/pkg/cipher"
	"github.com/lexdecode/lexdecode/pkg/config"
	"github.com/lexdecode/lexdecode/pkg/dictionary"
	"github.com/lexdecode/lexdecode/pkg/export"
	"github.com/lexdecode/lexdecode/pkg/result"
	"github.com/lexdecode/lexdecode/pkg/search"
	"github.com/lexdecode/lexdecode/pkg/task"
)

const (
	Version = "0.1.0"
	AppName = "lexdecode"
)

// snapshot is the full option state in effect at any point during
// argument parsing; a bare ciphertext argument freezes a copy of it into
// a runnable task.Task.
type snapshot struct {
	cipherKind   string
	pellingCount int

	statFiles      []string
	protectedFiles []string
	properFiles    []string
	numericFiles   []string

	lowScoreArea      int
	lowScoreLimit     float64
	highScoreLimit    float64
	iterations        int
	threads           int
	queueDepth        int
	maxWordsPerBucket int
	matrixCreatePoint int

	fixedPrefix string
	filler      byte
	oddMode     bool
	commaAtStart bool
	commaInside  bool
	printLevel   int

	exportPath string
}

func defaultSnapshot(cfg *config.Config) snapshot {
	return snapshot{
		cipherKind:        "simple",
		lowScoreArea:      cfg.Search.LowScoreArea,
		lowScoreLimit:     cfg.Search.LowScoreLimit,
		highScoreLimit:    cfg.Search.HighScoreLimit,
		iterations:        cfg.Search.Iterations,
		threads:           cfg.Queue.Threads,
		queueDepth:        cfg.Queue.Depth,
		maxWordsPerBucket: cfg.Dict.MaxWordsPerBucket,
		matrixCreatePoint: cfg.Queue.MatrixCreatePoint,
		fixedPrefix:       "",
		filler:            fillerByte(cfg.Search.Filler),
		oddMode:           cfg.Search.OddMode,
		commaAtStart:      cfg.Search.CommaAtStart,
		commaInside:       cfg.Search.CommaInside,
		printLevel:        cfg.Search.PrintLevel,
	}
}

func (s snapshot) clone() snapshot {
	c := s
	c.statFiles = append([]string(nil), s.statFiles...)
	c.protectedFiles = append([]string(nil), s.protectedFiles...)
	c.properFiles = append([]string(nil), s.properFiles...)
	c.numericFiles = append([]string(nil), s.numericFiles...)
	return c
}

// dictKey is what determines whether a dictionary must be rebuilt: the
// exact set of ingestion inputs and bucket sizing that feed Dictionary.Build.
func (s snapshot) dictKey() string {
	return strings.Join(s.statFiles, "\x1f") + "\x00" +
		strings.Join(s.protectedFiles, "\x1f") + "\x00" +
		strings.Join(s.properFiles, "\x1f") + "\x00" +
		strings.Join(s.numericFiles, "\x1f") + "\x00" +
		strconv.Itoa(s.maxWordsPerBucket)
}

func fillerByte(v string) byte {
	if v == "" || v == " " {
		return 0
	}
	return v[0]
}

func onOff(v string) (bool, error) {
	switch v {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected on|off, got %q", v)
	}
}

func main() {
	cfg, configPath, err := config.LoadConfigWithPriority(envConfigOverride())
	if err != nil {
		log.Fatalf("lexdecode: loading config: %v", err)
	}
	log.Debugf("lexdecode: using config at %s", configPath)

	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "--version" || args[0] == "-version") {
		printBanner()
		os.Exit(0)
	}

	cur := defaultSnapshot(cfg)
	var d *dictionary.Dictionary
	var builtKey string

	for _, arg := range args {
		if len(arg) == 0 {
			continue
		}
		if arg[0] != '-' || len(arg) < 2 {
			// Bare argument: the ciphertext for one task, run under cur.
			snap := cur.clone()
			if d == nil || builtKey != snap.dictKey() {
				d, err = buildDictionary(snap)
				if err != nil {
					log.Fatalf("lexdecode: building dictionary: %v", err)
				}
				builtKey = snap.dictKey()
			}
			if err := runTask(d, arg, snap); err != nil {
				if _, ok := err.(*cipher.UnknownCipherError); ok {
					log.Fatalf("lexdecode: task %q: %v", arg, err)
				}
				log.Errorf("lexdecode: task %q: %v", arg, err)
			}
			continue
		}

		if strings.HasPrefix(arg, "-config") {
			// Already consumed once, up front, to pick the config file
			// before any task can run; ignore on this pass.
			continue
		}
		if strings.HasPrefix(arg, "-export") {
			cur.exportPath = arg[len("-export"):]
			continue
		}

		letter := arg[1]
		val := arg[2:]
		if err := applyFlag(&cur, letter, val); err != nil {
			log.Fatalf("lexdecode: option -%c%s: %v", letter, val, err)
		}
	}
}

func envConfigOverride() string {
	for _, a := range os.Args[1:] {
		if strings.HasPrefix(a, "-config") {
			return a[len("-config"):]
		}
	}
	return ""
}

func applyFlag(s *snapshot, letter byte, val string) error {
	switch letter {
	case 'x':
		kind, count := task.ParsePellingCount(val)
		s.cipherKind = kind
		if count > 0 {
			s.pellingCount = count
		} else if kind == "pelling" {
			s.pellingCount = 2
		}
	case 's':
		s.statFiles = append(s.statFiles, val)
	case 'n':
		s.protectedFiles = append(s.protectedFiles, val)
	case 'p':
		s.properFiles = append(s.properFiles, val)
	case 'u':
		s.numericFiles = append(s.numericFiles, val)
	case 'a':
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		s.lowScoreArea = n
	case 'l':
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		s.lowScoreLimit = f
	case 'h':
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		s.highScoreLimit = f
	case 'i':
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		s.iterations = n
	case 't':
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		s.threads = n
	case 'q':
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		s.queueDepth = n
	case 'w':
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		s.maxWordsPerBucket = n
	case 'm':
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		s.matrixCreatePoint = n
	case 'c':
		if val == "_" {
			s.fixedPrefix = ""
		} else {
			s.fixedPrefix = val
		}
	case 'f':
		s.filler = fillerByte(val)
	case 'O':
		b, err := onOff(val)
		if err != nil {
			return err
		}
		s.oddMode = b
	case 'S':
		b, err := onOff(val)
		if err != nil {
			return err
		}
		s.commaAtStart = b
	case 'C':
		b, err := onOff(val)
		if err != nil {
			return err
		}
		s.commaInside = b
	case 'P':
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		s.printLevel = n
	default:
		return fmt.Errorf("unknown option letter %q", letter)
	}
	return nil
}

func buildDictionary(s snapshot) (*dictionary.Dictionary, error) {
	d := dictionary.New(dictionary.Config{MaxWordsPerBucket: s.maxWordsPerBucket})
	for _, p := range s.protectedFiles {
		if err := d.LoadProtectedCommon(p); err != nil {
			return nil, err
		}
	}
	for _, p := range s.properFiles {
		if err := d.LoadProperNames(p); err != nil {
			return nil, err
		}
	}
	for _, p := range s.numericFiles {
		if err := d.LoadNumericWords(p); err != nil {
			return nil, err
		}
	}
	if err := d.Build(s.statFiles); err != nil {
		return nil, err
	}
	return d, nil
}

func runTask(d *dictionary.Dictionary, cipherText string, s snapshot) error {
	var level log.Level
	switch {
	case s.printLevel >= 2:
		level = log.DebugLevel
	case s.printLevel == 0:
		level = log.WarnLevel
	default:
		level = log.InfoLevel
	}
	log.SetLevel(level)
	taskLogger := logger.NewWithConfig(AppName, level, false, true, log.TextFormatter)
	cipher.MatrixCreationPoint = s.matrixCreatePoint

	normalized := strings.ToLower(cipherText)
	if s.cipherKind == "playfair" {
		// Classical Playfair has no distinct J cell; ciphertext is folded
		// into the same 25-letter alphabet the key square uses.
		normalized = utils.FoldPlayfairJ(normalized)
	}

	t := task.Task{
		CipherText: normalized,
		Opts: task.Options{
			CipherKind:   s.cipherKind,
			PellingCount: s.pellingCount,
			QueueDepth:   s.queueDepth,
			Threads:      s.threads,
			FixedPrefix:  s.fixedPrefix,
			Search: search.Config{
				LowScoreArea:   s.lowScoreArea,
				LowScoreLimit:  s.lowScoreLimit,
				HighScoreLimit: s.highScoreLimit,
				OddMode:        s.oddMode,
				CommaAtStart:   s.commaAtStart,
				CommaInside:    s.commaInside,
				Filler:         s.filler,
			},
		},
	}

	iterations := s.iterations
	if iterations < 1 {
		iterations = 1
	}
	var solutions []result.Solution
	for iter := 0; iter < iterations; iter++ {
		var err error
		solutions, err = task.Run(d, t, taskLogger)
		if err != nil {
			return err
		}
	}
	if s.exportPath != "" {
		doc := export.Build(t.CipherText, t.Opts.CipherKind, solutions, d.Registry)
		if err := export.WriteFile(s.exportPath, doc); err != nil {
			return err
		}
	}
	return nil
}

func printBanner() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)
	logger.Print("")
	logger.Print("[ lexdecode ] dictionary-guided ciphertext decoder")
	logger.Print("", "version", Version)
	logger.Print("")
}
