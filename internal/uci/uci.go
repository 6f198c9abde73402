// Package uci implements the text-line Universal Chess Interface
// protocol described in the engine's external-interface spec. Exactly
// two threads ever touch engine state: this package's Run loop (the
// dispatcher) and the single search goroutine handleGo starts. They
// never share a *board.Position; handleGo clones one for the worker
// before launching it.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arvidsson/corvid/internal/board"
	"github.com/arvidsson/corvid/internal/config"
	"github.com/arvidsson/corvid/internal/engine"
	"github.com/arvidsson/corvid/internal/xlog"
)

var log = xlog.Get("uci")

const (
	engineName   = "corvid"
	engineAuthor = "arvidsson"
)

// UCI holds the dispatcher's view of the game and the shared engine
// resources (transposition table, searcher) that persist across a
// `ucinewgame`.
type UCI struct {
	searcher *engine.Searcher
	tt       *engine.TranspositionTable
	position *board.Position

	defaultDepth int

	searching  bool
	searchDone chan struct{}
}

// New builds a UCI handler seeded from cfg.
func New(cfg config.Config) *UCI {
	tt := engine.NewTranspositionTable(cfg.Hash)
	return &UCI{
		searcher:     engine.NewSearcher(tt),
		tt:           tt,
		position:     board.NewPosition(),
		defaultDepth: cfg.DefaultDepth,
	}
}

// Run reads commands from stdin until `quit` or EOF. Every reply goes
// to stdout; diagnostics go to stderr via xlog so stdout never carries
// a stray line.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return
		case "setoption":
			u.handleSetOption(args)
		case "d", "print":
			fmt.Print(u.position.String())
		case "perft":
			u.handlePerft(args)
		default:
			log.Warningf("unrecognized command: %s", cmd)
		}
	}
}

func (u *UCI) handleUCI() {
	fmt.Printf("id name %s\n", engineName)
	fmt.Printf("id author %s\n", engineAuthor)
	fmt.Println("option name Hash type spin default 100000 min 1000 max 100000000")
	fmt.Println("option name Threads type spin default 1 min 1 max 1")
	fmt.Println("option name MultiPV type spin default 1 min 1 max 1")
	fmt.Println("uciok")
}

func (u *UCI) handleNewGame() {
	u.handleStop()
	u.position = board.NewPosition()
}

// handlePosition accepts `position startpos [moves ...]` and
// `position fen <fen> [moves ...]`.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesIdx := len(args)
	for i, a := range args {
		if a == "moves" {
			movesIdx = i
			break
		}
	}

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
	case "fen":
		if movesIdx <= 1 {
			log.Errorf("position fen: missing fen string")
			return
		}
		fen := strings.Join(args[1:movesIdx], " ")
		pos, err := board.ParseFEN(fen)
		if err != nil {
			log.Errorf("position fen %q: %v", fen, err)
			return
		}
		u.position = pos
	default:
		log.Errorf("position: unrecognized argument %q", args[0])
		return
	}

	if movesIdx == len(args) {
		return
	}
	for _, s := range args[movesIdx+1:] {
		m, err := board.ParseMove(s, u.position)
		if err != nil {
			log.Errorf("position moves: %v", err)
			return
		}
		u.position.MakeMove(m)
	}
}

// handleGo parses search limits and starts the worker goroutine. The
// dispatcher returns immediately; bestmove is printed from the
// goroutine once the search completes or is stopped.
func (u *UCI) handleGo(args []string) {
	limits := engine.Limits{Depth: u.defaultDepth}
	infinite := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				if d, err := strconv.Atoi(args[i+1]); err == nil {
					limits.Depth = d
				}
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				if ms, err := strconv.Atoi(args[i+1]); err == nil {
					limits.MoveTime = time.Duration(ms) * time.Millisecond
				}
				i++
			}
		case "infinite":
			infinite = true
		}
	}
	if infinite {
		limits.Depth = engine.InfiniteDepth
		limits.MoveTime = 0
	}

	pos := u.position.Clone()
	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)
		result := u.searcher.Search(pos, limits, u.sendInfo)
		u.searching = false
		if result.BestMove == board.NoMove {
			fmt.Println("bestmove 0000")
			return
		}
		fmt.Printf("bestmove %s\n", result.BestMove.String())
	}()
}

func (u *UCI) handleStop() {
	if !u.searching {
		return
	}
	u.searcher.Stop()
	<-u.searchDone
}

func (u *UCI) handleSetOption(args []string) {
	name, value := parseNameValue(args)
	switch strings.ToLower(name) {
	case "hash":
		if entries, err := strconv.Atoi(value); err == nil {
			u.tt.Resize(entries)
		}
	case "threads":
		// single-threaded search only; accepted and ignored.
	default:
		log.Warningf("setoption: unrecognized option %q", name)
	}
}

func parseNameValue(args []string) (name, value string) {
	var readingValue bool
	for _, a := range args {
		switch a {
		case "name":
			readingValue = false
		case "value":
			readingValue = true
		default:
			if readingValue {
				value = appendWord(value, a)
			} else {
				name = appendWord(name, a)
			}
		}
	}
	return name, value
}

func appendWord(s, w string) string {
	if s == "" {
		return w
	}
	return s + " " + w
}

// handlePerft divides the perft count by root move for debugging, then
// reports the totals as an `info string` line so GUIs scraping that
// prefix still see a result.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}
	start := time.Now()
	moves, counts := board.PerftDivide(u.position, depth)
	var total uint64
	for i, m := range moves {
		fmt.Printf("%s: %d\n", m.String(), counts[i])
		total += counts[i]
	}
	elapsed := time.Since(start)
	fmt.Printf("info string perft %d nodes %d time %dms\n", depth, total, elapsed.Milliseconds())
}

// sendInfo formats one iterative-deepening report as a UCI `info` line.
func (u *UCI) sendInfo(r engine.SearchResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d", r.Depth)

	switch {
	case r.Score > engine.MateValue-1000:
		mateIn := (engine.MateValue - r.Score + 1) / 2
		fmt.Fprintf(&sb, " score mate %d", mateIn)
	case r.Score < -engine.MateValue+1000:
		mateIn := -(engine.MateValue + r.Score + 1) / 2
		fmt.Fprintf(&sb, " score mate %d", mateIn)
	default:
		fmt.Fprintf(&sb, " score cp %d", r.Score)
	}

	fmt.Fprintf(&sb, " nodes %d", r.Nodes)
	fmt.Fprintf(&sb, " time %d", r.Elapsed.Milliseconds())
	if r.Elapsed > 0 {
		nps := uint64(float64(r.Nodes) / r.Elapsed.Seconds())
		fmt.Fprintf(&sb, " nps %d", nps)
	}
	if len(r.PV) > 0 {
		pv := make([]string, len(r.PV))
		for i, m := range r.PV {
			pv[i] = m.String()
		}
		fmt.Fprintf(&sb, " pv %s", strings.Join(pv, " "))
	}
	fmt.Println(sb.String())
}
