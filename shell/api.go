package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/tinue/config"
	"github.com/domino14/tinue/finder"
	"github.com/domino14/tinue/tak"
	"github.com/domino14/tinue/tinue"
	"github.com/domino14/tinue/tinuetree"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a line into a command, its arguments, and its
// "-key value" options. Quoted strings are kept together.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) boardSize(cmd *shellcmd) (int, error) {
	return cmd.options.IntDefault("size", sc.config.GetInt(config.ConfigBoardSize))
}

// setMoves replaces the current game with moves played from the empty board.
func (sc *ShellController) setMoves(size int, moves []tak.Move) error {
	pos, err := tak.NewPosition(size)
	if err != nil {
		return err
	}
	for i, m := range moves {
		if err := pos.PlayMove(m); err != nil {
			return fmt.Errorf("ply %d (%s): %w", i+1, m.PTN(size), err)
		}
	}
	sc.pos = pos
	sc.moves = moves
	return nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	size := sc.config.GetInt(config.ConfigBoardSize)
	if len(cmd.args) > 0 {
		var err error
		if size, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	if err := sc.setMoves(size, nil); err != nil {
		return nil, err
	}
	return msg(sc.pos.ToDisplayText()), nil
}

func (sc *ShellController) loadPTN(cmd *shellcmd) (*Response, error) {
	size, err := sc.boardSize(cmd)
	if err != nil {
		return nil, err
	}
	moves := make([]tak.Move, 0, len(cmd.args))
	for _, s := range cmd.args {
		m, err := tak.ParsePTN(size, s)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	if err := sc.setMoves(size, moves); err != nil {
		return nil, err
	}
	return msg(sc.pos.ToDisplayText()), nil
}

func (sc *ShellController) loadServer(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New(`usage: server "P A1,P E5,..." [-size n] [-undo n]`)
	}
	size, err := sc.boardSize(cmd)
	if err != nil {
		return nil, err
	}
	undo, err := cmd.options.IntDefault("undo", 0)
	if err != nil {
		return nil, err
	}
	moves, err := tak.ParseServerNotation(size, cmd.args[0])
	if err != nil {
		return nil, err
	}
	if undo < 0 || undo > len(moves) {
		return nil, fmt.Errorf("cannot undo %d plies of a %d ply game", undo, len(moves))
	}
	if err := sc.setMoves(size, moves[:len(moves)-undo]); err != nil {
		return nil, err
	}
	return msg(sc.pos.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.pos == nil {
		return nil, errNoPosition
	}
	var sb strings.Builder
	sb.WriteString(sc.pos.ToDisplayText())
	if result, over := sc.pos.GameResult(); over {
		fmt.Fprintf(&sb, "Game over: %s\n", result)
	}
	if len(sc.moves) > 0 {
		sb.WriteString("Moves: " + strings.Join(tak.MovesToPTN(sc.pos.Size(), sc.moves), " "))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.pos == nil {
		return nil, errNoPosition
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <ptn move> [<ptn move> ...]")
	}
	for _, s := range cmd.args {
		m, err := tak.ParsePTN(sc.pos.Size(), s)
		if err != nil {
			return nil, err
		}
		if err := sc.pos.PlayMove(m); err != nil {
			return nil, err
		}
		sc.moves = append(sc.moves, m)
	}
	return msg(sc.pos.ToDisplayText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.pos == nil {
		return nil, errNoPosition
	}
	n := 1
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	if n < 0 || n > len(sc.moves) {
		return nil, fmt.Errorf("cannot undo %d plies; only %d were played", n, len(sc.moves))
	}
	if err := sc.setMoves(sc.pos.Size(), sc.moves[:len(sc.moves)-n]); err != nil {
		return nil, err
	}
	return msg(sc.pos.ToDisplayText()), nil
}

func (sc *ShellController) genMoves(cmd *shellcmd) (*Response, error) {
	if sc.pos == nil {
		return nil, errNoPosition
	}
	limit, err := cmd.options.IntDefault("n", 20)
	if err != nil {
		return nil, err
	}
	scored := sc.pos.GenerateSortedMoves()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d legal moves\n", len(scored))
	for i, sm := range scored {
		if i == limit {
			break
		}
		fmt.Fprintf(&sb, "%3d: %-10s %d\n", i+1, sm.Move.PTN(sc.pos.Size()), sm.Score)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.pos == nil {
		return nil, errNoPosition
	}
	depth := 1
	if len(cmd.args) > 0 {
		var err error
		if depth, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	if depth < 0 {
		return nil, errors.New("depth must not be negative")
	}
	s := tinue.NewSolver(sc.pos)
	v := s.AlphaBeta(depth, tinue.MinValue, tinue.MaxValue)
	return msg(fmt.Sprintf("%s to move: %s (%d nodes)", sc.pos.SideToMove(), v, s.Nodes())), nil
}

// tinue looks for a tinue with the options from the config, overridden by
// the command's options.
func (sc *ShellController) tinue(cmd *shellcmd) (*Response, error) {
	if sc.pos == nil {
		return nil, errNoPosition
	}
	opts, err := finder.OptionsFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	if opts.MaxDepth, err = cmd.options.IntDefault("depth", opts.MaxDepth); err != nil {
		return nil, err
	}
	if opts.MaxDepth < 1 {
		return nil, errors.New("depth must be at least 1")
	}
	if mode := cmd.options.String("mode"); mode != "" {
		switch finder.Mode(mode) {
		case finder.ModeFirst, finder.ModeMulti, finder.ModeUnique:
			opts.Mode = finder.Mode(mode)
		default:
			return nil, fmt.Errorf("unknown mode %q", mode)
		}
	}
	if f := cmd.options.String("format"); f != "" {
		if opts.Format, err = tinuetree.ParseFormat(f); err != nil {
			return nil, err
		}
	}
	if _, ok := cmd.options["skip-walls"]; ok {
		opts.SkipWalls = cmd.options.Bool("skip-walls")
	}
	if _, ok := cmd.options["ttable"]; ok {
		opts.TTable = cmd.options.Bool("ttable")
	}

	start := time.Now()
	depth, payload, nodes, err := finder.Solve(context.Background(), sc.pos, opts)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return msg(fmt.Sprintf("No tinue within %d plies (%d nodes, %v)",
			opts.MaxDepth, nodes, time.Since(start))), nil
	}
	bts, err := tinuetree.Marshal(payload, opts.Format)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Tinue in %d plies (%d nodes, %v):\n%s",
		depth, nodes, time.Since(start), strings.TrimRight(string(bts), "\n"))), nil
}

func (sc *ShellController) pv(cmd *shellcmd) (*Response, error) {
	if sc.pos == nil {
		return nil, errNoPosition
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: pv <depth>")
	}
	depth, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	line, err := tinue.NewSolver(sc.pos).PrincipalVariation(depth)
	if err != nil && !errors.Is(err, tinue.ErrPVTooLong) {
		return nil, err
	}
	out := line.String()
	if err != nil {
		out += "(line truncated: " + err.Error() + ")"
	}
	return msg(out), nil
}
