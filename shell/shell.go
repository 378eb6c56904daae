// Package shell is an interactive front end for the search engine: edit a
// board, generate placements, drop them and watch lines clear.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/reachgen/board"
	"github.com/domino14/reachgen/cache"
	"github.com/domino14/reachgen/config"
	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
	"github.com/domino14/reachgen/reach"
	"github.com/domino14/reachgen/stats"
	"github.com/domino14/reachgen/worker"
)

var (
	errNoData       = errors.New("no data in this line")
	errNoPlacements = errors.New("no placements generated yet; use gen first")
	errNotConnected = errors.New("not connected to a worker; use connect first")
)

type Response struct {
	message string
}

func Msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l       *readline.Instance
	out     io.Writer
	config  *config.Config
	aliases map[string]string

	engine  *reach.Engine
	results *cache.Results
	rng     *frand.RNG

	field   reach.Field
	curGen  []placement.Placement
	history []reach.Field

	nc     *nats.Conn
	client *worker.Client
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// newController sets up everything but the terminal.
func newController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	sc := &ShellController{
		out:     out,
		config:  cfg,
		aliases: map[string]string{},
		results: cache.NewResults(cfg.GetInt(config.ConfigCacheSize)),
		rng:     frand.New(),
	}
	if err := sc.rebuildEngine(); err != nil {
		return nil, err
	}
	return sc, nil
}

func NewShellController(cfg *config.Config) *ShellController {
	completer := &ShellCompleter{}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mreachgen>\033[0m ",
		HistoryFile:     "/tmp/reachgen-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		AutoComplete:        completer,
	})
	if err != nil {
		panic(err)
	}
	sc, err := newController(cfg, l.Stderr())
	if err != nil {
		l.Close()
		panic(err)
	}
	sc.l = l
	completer.sc = sc
	return sc
}

func (sc *ShellController) rebuildEngine() error {
	rs, err := cache.RotationSystem(sc.config.GetString(config.ConfigKickTable))
	if err != nil {
		return err
	}
	mode, err := reach.ParseMode(sc.config.GetString(config.ConfigDropMode))
	if err != nil {
		return err
	}
	eng, err := reach.NewEngine(reach.Backend(sc.config.GetString(config.ConfigBackend)), rs, mode)
	if err != nil {
		return err
	}
	sc.engine = eng
	sc.curGen = nil
	return nil
}

func (sc *ShellController) spawnCenter() (int, int) {
	return sc.config.GetInt(config.ConfigSpawnX), sc.config.GetInt(config.ConfigSpawnY)
}

func (sc *ShellController) display(overlay ...placement.Placement) string {
	return board.ToDisplayText(sc.field, sc.config.GetInt(config.ConfigVisibleRows), overlay...)
}

// setField replaces the board, remembering the old one for undo.
func (sc *ShellController) setField(f reach.Field) {
	sc.history = append(sc.history, sc.field)
	sc.field = f
	sc.curGen = nil
}

func (sc *ShellController) show(args []string) (*Response, error) {
	if len(args) == 0 {
		return Msg(sc.display()), nil
	}
	p, err := sc.generated(args[0])
	if err != nil {
		return nil, err
	}
	return Msg(sc.display(p) + p.String()), nil
}

func (sc *ShellController) load(args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: load <sample|file>")
	}
	text, ok := board.Samples[args[0]]
	if !ok {
		dat, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		text = board.Sample(dat)
	}
	f, err := board.Parse[reach.Field](string(text))
	if err != nil {
		return nil, err
	}
	sc.setField(f)
	return Msg(sc.display()), nil
}

func (sc *ShellController) row(args []string) (*Response, error) {
	if len(args) != 2 {
		return nil, errors.New("usage: row <y> <cells>")
	}
	y, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, err
	}
	f, err := board.SetRow(sc.field, y, args[1])
	if err != nil {
		return nil, err
	}
	sc.setField(f)
	return Msg(sc.display()), nil
}

func (sc *ShellController) clear() (*Response, error) {
	sc.setField(reach.Field{})
	return Msg(sc.display()), nil
}

func (sc *ShellController) undo() (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	sc.field = sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	sc.curGen = nil
	return Msg(sc.display()), nil
}

// parseSpawn reads <shape> [x y [orientation]], where x and y are the
// rotation centre.
func (sc *ShellController) parseSpawn(args []string) (placement.Placement, error) {
	if len(args) != 1 && len(args) != 3 && len(args) != 4 {
		return placement.Placement{}, errors.New("usage: gen <shape> [x y [orientation]]")
	}
	s, err := piece.ParseShape(args[0])
	if err != nil {
		return placement.Placement{}, err
	}
	p := piece.Piece{Shape: s, Orientation: piece.North}
	cx, cy := sc.spawnCenter()
	if len(args) >= 3 {
		if cx, err = strconv.Atoi(args[1]); err != nil {
			return placement.Placement{}, err
		}
		if cy, err = strconv.Atoi(args[2]); err != nil {
			return placement.Placement{}, err
		}
	}
	if len(args) == 4 {
		if p.Orientation, err = piece.ParseOrientation(args[3]); err != nil {
			return placement.Placement{}, err
		}
	}
	return placement.FromCenter(p, cx, cy), nil
}

func (sc *ShellController) search(spawn placement.Placement) ([]placement.Placement, error) {
	minimize := sc.config.GetBool(config.ConfigMinimize)
	key := cache.Key(sc.field, spawn, sc.engine.Backend(), sc.config.GetString(config.ConfigKickTable),
		sc.engine.Mode(), minimize)
	return sc.results.Load(key, func() ([]placement.Placement, error) {
		return sc.engine.Generate(sc.field, spawn, minimize)
	})
}

func placementTable(plms []placement.Placement) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-5s%-10s%-10s%s\n", "#", "Placement", "Corner", "Center")
	for i, p := range plms {
		cx, cy := p.Center()
		fmt.Fprintf(&sb, "%-5d%-10s%-10s%d,%d\n", i, p.ShortDescription(),
			fmt.Sprintf("%d,%d", p.X, p.Y), cx, cy)
	}
	return sb.String()
}

func (sc *ShellController) gen(args []string) (*Response, error) {
	spawn, err := sc.parseSpawn(args)
	if err != nil {
		return nil, err
	}
	plms, err := sc.search(spawn)
	if err != nil {
		return nil, err
	}
	sc.curGen = plms
	if len(plms) == 0 {
		return Msg("No placements from " + spawn.ShortDescription()), nil
	}
	return Msg(placementTable(plms) + fmt.Sprintf("%d placements from %v", len(plms), spawn.ShortDescription())), nil
}

// all counts the placements of every shape from the configured spawn.
func (sc *ShellController) all() (*Response, error) {
	cx, cy := sc.spawnCenter()
	spawns := reach.SpawnsFor(cx, cy)
	res, err := reach.GenerateAll(context.Background(), sc.engine, sc.field, spawns,
		sc.config.GetBool(config.ConfigMinimize), sc.config.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, spawn := range spawns {
		fmt.Fprintf(&sb, "%v: %d\n", spawn.Piece.Shape, len(res[i]))
	}
	return Msg(strings.TrimRight(sb.String(), "\n")), nil
}

// canReach answers reach <shape> <orientation> <x> <y>, with x and y the
// corner of the target, from the configured spawn.
func (sc *ShellController) canReach(args []string) (*Response, error) {
	if len(args) != 4 {
		return nil, errors.New("usage: reach <shape> <orientation> <x> <y>")
	}
	target, err := parsePlacement(args)
	if err != nil {
		return nil, err
	}
	spawn, err := sc.parseSpawn(args[:1])
	if err != nil {
		return nil, err
	}
	ok, err := sc.engine.CanReach(sc.field, spawn, target)
	if err != nil {
		return nil, err
	}
	if ok {
		return Msg(target.ShortDescription() + " is reachable"), nil
	}
	return Msg(target.ShortDescription() + " is not reachable"), nil
}

func parsePlacement(args []string) (placement.Placement, error) {
	s, err := piece.ParseShape(args[0])
	if err != nil {
		return placement.Placement{}, err
	}
	o, err := piece.ParseOrientation(args[1])
	if err != nil {
		return placement.Placement{}, err
	}
	x, err := strconv.Atoi(args[2])
	if err != nil {
		return placement.Placement{}, err
	}
	y, err := strconv.Atoi(args[3])
	if err != nil {
		return placement.Placement{}, err
	}
	return placement.New(s, o, x, y), nil
}

func (sc *ShellController) generated(idx string) (placement.Placement, error) {
	if sc.curGen == nil {
		return placement.Placement{}, errNoPlacements
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return placement.Placement{}, err
	}
	if i < 0 || i >= len(sc.curGen) {
		return placement.Placement{}, fmt.Errorf("placement index %d out of range [0, %d)", i, len(sc.curGen))
	}
	return sc.curGen[i], nil
}

func (sc *ShellController) place(args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: place <index>")
	}
	p, err := sc.generated(args[0])
	if err != nil {
		return nil, err
	}
	placed, ok := board.Place(sc.field, p)
	if !ok {
		return nil, errors.New("placement does not fit on this board")
	}
	cleared, lines := board.ClearLines(placed)
	sc.setField(cleared)
	msg := sc.display()
	if !lines.IsEmpty() {
		msg += fmt.Sprintf("Cleared %d line(s): %v", lines.Count(), lines.Rows())
	}
	return Msg(msg), nil
}

func (sc *ShellController) garbage(args []string) (*Response, error) {
	n := 1
	if len(args) > 0 {
		var err error
		if n, err = strconv.Atoi(args[0]); err != nil {
			return nil, err
		}
	}
	f, toppedOut := board.AddGarbage(sc.field, n, sc.rng)
	sc.setField(f)
	if toppedOut {
		return Msg(sc.display() + "Topped out!"), nil
	}
	return Msg(sc.display()), nil
}

func (sc *ShellController) random(args []string) (*Response, error) {
	rows, density := 8, 0.45
	var err error
	if len(args) > 0 {
		if rows, err = strconv.Atoi(args[0]); err != nil {
			return nil, err
		}
	}
	if len(args) > 1 {
		if density, err = strconv.ParseFloat(args[1], 64); err != nil {
			return nil, err
		}
	}
	sc.setField(board.Random[reach.Field](rows, density, sc.rng))
	return Msg(sc.display()), nil
}

var settings = []string{
	config.ConfigBackend, config.ConfigDropMode, config.ConfigKickTable,
	config.ConfigMinimize, config.ConfigSpawnX, config.ConfigSpawnY,
	config.ConfigVisibleRows, config.ConfigThreads,
}

func (sc *ShellController) settingsText() string {
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	for _, key := range settings {
		fmt.Fprintf(&sb, "  %s: %v\n", key, sc.config.Get(key))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (sc *ShellController) set(args []string) (*Response, error) {
	if len(args) == 0 {
		return Msg(sc.settingsText()), nil
	}
	key := args[0]
	if !slices.Contains(settings, key) {
		return nil, errors.New("no such setting: " + key)
	}
	if len(args) == 1 {
		return Msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	old := sc.config.Get(key)
	sc.config.Set(key, args[1])
	switch key {
	case config.ConfigBackend, config.ConfigDropMode, config.ConfigKickTable:
		if err := sc.rebuildEngine(); err != nil {
			sc.config.Set(key, old)
			return nil, err
		}
	}
	return Msg("set " + key + " to " + args[1]), nil
}

func (sc *ShellController) bench(args []string) (*Response, error) {
	opts := stats.DefaultBenchOptions()
	opts.SpawnX, opts.SpawnY = sc.spawnCenter()
	opts.Minimize = sc.config.GetBool(config.ConfigMinimize)
	opts.Threads = sc.config.GetInt(config.ConfigThreads)
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, err
		}
		opts.Boards = n
	}
	if len(args) > 1 {
		seed, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, err
		}
		opts.Seed = seed
	}
	r, err := stats.Bench(context.Background(), sc.engine, opts)
	if err != nil {
		return nil, err
	}
	return Msg(strings.TrimRight(r.String(), "\n")), nil
}

func (sc *ShellController) connect() (*Response, error) {
	if sc.nc != nil {
		sc.nc.Close()
	}
	wcfg := worker.NewWorkerConfig(sc.config)
	nc, err := nats.Connect(wcfg.NatsURL)
	if err != nil {
		return nil, err
	}
	sc.nc = nc
	sc.client = worker.NewClient(nc, wcfg)
	return Msg("connected to " + wcfg.NatsURL + ", subject " + wcfg.Subject), nil
}

// workerRequest describes a search from spawn on the current board with the
// current settings.
func (sc *ShellController) workerRequest(spawn placement.Placement) *worker.Request {
	minimize := sc.config.GetBool(config.ConfigMinimize)
	return &worker.Request{
		Board:       board.ToText(sc.field, board.StackHeight(sc.field)),
		Shape:       spawn.Piece.Shape.String(),
		Orientation: spawn.Piece.Orientation.Letter(),
		X:           spawn.X,
		Y:           spawn.Y,
		Backend:     string(sc.engine.Backend()),
		Mode:        sc.engine.Mode().String(),
		Kicks:       sc.config.GetString(config.ConfigKickTable),
		Minimize:    &minimize,
	}
}

// ask runs gen, or reach when the first argument is "reach", on a remote
// worker.
func (sc *ShellController) ask(args []string) (*Response, error) {
	if sc.client == nil {
		return nil, errNotConnected
	}
	if len(args) > 0 && args[0] == "reach" {
		return sc.askReach(args[1:])
	}
	spawn, err := sc.parseSpawn(args)
	if err != nil {
		return nil, err
	}
	plms, err := sc.client.Generate(sc.workerRequest(spawn))
	if err != nil {
		return nil, err
	}
	sc.curGen = plms
	return Msg(placementTable(plms) + fmt.Sprintf("%d placements from worker", len(plms))), nil
}

func (sc *ShellController) askReach(args []string) (*Response, error) {
	if len(args) != 4 {
		return nil, errors.New("usage: ask reach <shape> <orientation> <x> <y>")
	}
	target, err := parsePlacement(args)
	if err != nil {
		return nil, err
	}
	spawn, err := sc.parseSpawn(args[:1])
	if err != nil {
		return nil, err
	}
	ok, err := sc.client.CanReach(sc.workerRequest(spawn), target)
	if err != nil {
		return nil, err
	}
	if ok {
		return Msg(target.ShortDescription() + " is reachable (worker)"), nil
	}
	return Msg(target.ShortDescription() + " is not reachable (worker)"), nil
}

func (sc *ShellController) alias(args []string) (*Response, error) {
	switch {
	case len(args) == 0:
		var sb strings.Builder
		for k, v := range sc.aliases {
			fmt.Fprintf(&sb, "%s = %s\n", k, v)
		}
		return Msg(strings.TrimRight(sb.String(), "\n")), nil
	case len(args) == 1:
		delete(sc.aliases, args[0])
		return Msg("removed alias " + args[0]), nil
	}
	sc.aliases[args[0]] = shellquote.Join(args[1:]...)
	return Msg("alias " + args[0] + " = " + sc.aliases[args[0]]), nil
}

func (sc *ShellController) handle(line string) (*Response, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	if expansion, ok := sc.aliases[fields[0]]; ok {
		expanded, err := shellquote.Split(expansion)
		if err != nil {
			return nil, err
		}
		fields = append(expanded, fields[1:]...)
	}
	cmd := fields[0]
	args := fields[1:]
	switch cmd {
	case "help", "h", "?":
		return sc.help(args)
	case "load", "l":
		return sc.load(args)
	case "row":
		return sc.row(args)
	case "show", "s", "b":
		return sc.show(args)
	case "clear":
		return sc.clear()
	case "undo", "u":
		return sc.undo()
	case "gen", "g":
		return sc.gen(args)
	case "all":
		return sc.all()
	case "reach", "r":
		return sc.canReach(args)
	case "place", "p":
		return sc.place(args)
	case "garbage":
		return sc.garbage(args)
	case "random":
		return sc.random(args)
	case "set":
		return sc.set(args)
	case "bench":
		return sc.bench(args)
	case "connect":
		return sc.connect()
	case "ask":
		return sc.ask(args)
	case "alias":
		return sc.alias(args)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	defer func() {
		if sc.nc != nil {
			sc.nc.Close()
		}
	}()

	sc.showMessage(sc.display())
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(line)
		if err == errNoData {
			continue
		} else if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
