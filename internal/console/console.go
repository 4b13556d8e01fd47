// Package console is the command line front end of the sheet. It parses
// subcommands, prompts for input and prints results; every rule lives in the
// character service.
package console

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	characterService "github.com/KirkDiggler/dnd-character-sheet/internal/services/character"
)

// Config holds the console dependencies
type Config struct {
	Service characterService.Service // Required
	In      io.Reader
	Out     io.Writer
	Logger  *zap.Logger
}

// App runs one subcommand per call
type App struct {
	service characterService.Service
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"create":    {"create", (*App).create},
	"show":      {"show [-json] <id>", (*App).show},
	"update":    {"update <id>", (*App).update},
	"refresh":   {"refresh <id>", (*App).refresh},
	"attack":    {"attack [-adv] [-dis] [-extra 1d4+2d6] <id> <weapon>", (*App).attack},
	"roll":      {"roll [-adv] [-dis] <expression>", (*App).roll},
	"equip":     {"equip <id> <equipment name>", (*App).equip},
	"equipment": {"equipment", (*App).equipment},
	"list":      {"list", (*App).list},
	"delete":    {"delete <id>", (*App).delete},
}

var commandOrder = []string{"create", "show", "update", "refresh", "attack", "roll", "equip", "equipment", "list", "delete"}

// New creates the console
func New(cfg *Config) *App {
	if cfg.Service == nil {
		panic("service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &App{
		service: cfg.Service,
		in:      bufio.NewScanner(cfg.In),
		out:     cfg.Out,
		logger:  logger,
	}
}

// Run executes the subcommand named by args[0]
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Usage()
		return dnderr.InvalidArgument("a command is required")
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.Usage()
		return dnderr.InvalidArgumentf("unknown command %q", args[0])
	}

	a.logger.Debug("running command", zap.String("command", args[0]))
	return cmd.run(a, ctx, args[1:])
}

// Usage prints every subcommand
func (a *App) Usage() {
	fmt.Fprintln(a.out, "Usage: sheet [-config file] <command> [arguments]")
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(a.out, "  %s\n", commands[name].usage)
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// positional parses fs and requires exactly n positional arguments
func positional(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "invalid flags")
	}
	if fs.NArg() != n {
		return nil, dnderr.InvalidArgumentf("%s expects %d argument(s), got %d", fs.Name(), n, fs.NArg())
	}
	return fs.Args(), nil
}

func (a *App) create(ctx context.Context, args []string) error {
	if _, err := positional(a.flags("create"), args, 0); err != nil {
		return err
	}

	input := &characterService.CreateInput{}
	var err error

	fmt.Fprintln(a.out, "Please enter your character's information:")
	text := []struct {
		label string
		dst   *string
	}{
		{"Name", &input.Name},
		{"Class", &input.Class},
		{"Race", &input.Race},
		{"Alignment", &input.Alignment},
		{"Background", &input.Background},
	}
	for _, f := range text {
		if *f.dst, err = a.promptText(f.label); err != nil {
			return err
		}
	}

	numbers := []struct {
		label string
		dst   *int
	}{
		{"Level", &input.Level},
		{"Hit points max", &input.HitPointsMax},
		{"Speed", &input.Speed},
	}
	for _, f := range numbers {
		if *f.dst, err = a.promptInt(f.label, false); err != nil {
			return err
		}
	}

	if input.HitDice, err = a.promptText("Hit dice"); err != nil {
		return err
	}

	for _, attr := range shared.Attributes {
		score, err := a.promptInt(title(string(attr)), false)
		if err != nil {
			return err
		}
		if err := input.Abilities.Set(attr, score); err != nil {
			return err
		}
	}

	if input.ClassSpellModifier, err = a.promptText("Class spell modifier"); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Please select your proficiencies, use yes or y if the case, else no or n.")
	for _, save := range character.DefaultSavingThrows() {
		yes, err := a.promptYesNo(fmt.Sprintf("Are you proficient in %s saving throws?", save.Name))
		if err != nil {
			return err
		}
		if yes {
			input.ProficientSaves = append(input.ProficientSaves, save.Name)
		}
	}
	for _, skill := range character.DefaultSkills() {
		yes, err := a.promptYesNo(fmt.Sprintf("Are you proficient in %s?", skill.Name))
		if err != nil {
			return err
		}
		if yes {
			input.ProficientSkills = append(input.ProficientSkills, skill.Name)
		}
	}

	fmt.Fprintln(a.out, "Please enter your glorious wealth.")
	coins := []struct {
		label string
		dst   *int
	}{
		{"Copper", &input.Purse.Copper},
		{"Silver", &input.Purse.Silver},
		{"Electrum", &input.Purse.Electrum},
		{"Gold", &input.Purse.Gold},
		{"Platinum", &input.Purse.Platinum},
	}
	for _, c := range coins {
		if *c.dst, err = a.promptInt(c.label, true); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, "Character created. Finalizing...")
	char, err := a.service.Create(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Done. %s has ID %s\n", char.Name, char.ID)
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	fs := a.flags("show")
	asJSON := fs.Bool("json", false, "print the saved document")
	rest, err := positional(fs, args, 1)
	if err != nil {
		return err
	}

	char, err := a.service.Get(ctx, rest[0])
	if err != nil {
		return err
	}

	if *asJSON {
		doc, err := character.Serialize(char)
		if err != nil {
			return err
		}
		raw, err := character.MarshalDocument(doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(raw))
		return nil
	}

	return printSheet(a.out, char)
}

func (a *App) update(ctx context.Context, args []string) error {
	rest, err := positional(a.flags("update"), args, 1)
	if err != nil {
		return err
	}

	char, err := a.service.Update(ctx, rest[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s updated, hit points restored to %d.\n", char.Name, char.HitPoints.Max)
	return nil
}

func (a *App) refresh(ctx context.Context, args []string) error {
	rest, err := positional(a.flags("refresh"), args, 1)
	if err != nil {
		return err
	}

	char, err := a.service.Refresh(ctx, rest[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s refreshed.\n", char.Name)
	return nil
}

func (a *App) attack(ctx context.Context, args []string) error {
	fs := a.flags("attack")
	adv := fs.Bool("adv", false, "roll the hit with advantage")
	dis := fs.Bool("dis", false, "roll the hit with disadvantage")
	extra := fs.String("extra", "", "additional damage rolls, e.g. 1d4+2d6")
	rest, err := positional(fs, args, 2)
	if err != nil {
		return err
	}

	result, err := a.service.Attack(ctx, &characterService.AttackInput{
		CharacterID:     rest[0],
		Weapon:          rest[1],
		Advantage:       *adv,
		Disadvantage:    *dis,
		AdditionalRolls: *extra,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Attacking with %s.\n", result.Weapon)
	fmt.Fprintf(a.out, "Hit for a total of %d!\n", result.TotalHit)
	if result.Critical {
		fmt.Fprintln(a.out, "!CRITICAL!")
	}
	fmt.Fprintf(a.out, "Weapon damage: %d\n", result.WeaponDamage)
	if result.ProcDamage > 0 {
		fmt.Fprintf(a.out, "Weapon proc'd for an additional %d damage.\n", result.ProcDamage)
	}
	for _, dmg := range result.AdditionalDamage {
		fmt.Fprintf(a.out, "Additional damage roll: %d\n", dmg)
	}
	fmt.Fprintf(a.out, "Attack recap: %s\n", result.Recap)
	return nil
}

func (a *App) roll(ctx context.Context, args []string) error {
	fs := a.flags("roll")
	adv := fs.Bool("adv", false, "roll with advantage")
	dis := fs.Bool("dis", false, "roll with disadvantage")
	rest, err := positional(fs, args, 1)
	if err != nil {
		return err
	}

	out, err := a.service.Roll(ctx, &characterService.RollInput{
		Expression:   rest[0],
		Advantage:    *adv,
		Disadvantage: *dis,
	})
	if err != nil {
		return err
	}

	for _, r := range out.Rolls {
		fmt.Fprintln(a.out, r.String())
		if r.Critical {
			fmt.Fprintln(a.out, "!CRITICAL!")
		}
		if r.Fumble {
			fmt.Fprintln(a.out, "!FUMBLE!")
		}
	}
	fmt.Fprintf(a.out, "Total: %d\n", out.Total)
	return nil
}

func (a *App) equip(ctx context.Context, args []string) error {
	fs := a.flags("equip")
	if err := fs.Parse(args); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "invalid flags")
	}
	if fs.NArg() < 2 {
		return dnderr.InvalidArgument("equip expects a character ID and an equipment name")
	}

	// names may be given unquoted, "equip abc short sword"
	name := strings.Join(fs.Args()[1:], " ")
	char, err := a.service.Equip(ctx, fs.Arg(0), name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s equipped %s.\n", char.Name, name)
	return nil
}

func (a *App) equipment(ctx context.Context, args []string) error {
	if _, err := positional(a.flags("equipment"), args, 0); err != nil {
		return err
	}

	keys, err := a.service.Equipment(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(a.out, "No equipment available.")
		return nil
	}
	for _, key := range keys {
		fmt.Fprintln(a.out, key)
	}
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	if _, err := positional(a.flags("list"), args, 0); err != nil {
		return err
	}

	chars, err := a.service.List(ctx)
	if err != nil {
		return err
	}
	if len(chars) == 0 {
		fmt.Fprintln(a.out, "No characters yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRACE\tCLASS\tLEVEL")
	for _, c := range chars {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Race, c.Class, c.Level)
	}
	return w.Flush()
}

func (a *App) delete(ctx context.Context, args []string) error {
	rest, err := positional(a.flags("delete"), args, 1)
	if err != nil {
		return err
	}

	if err := a.service.Delete(ctx, rest[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", rest[0])
	return nil
}

func (a *App) readLine(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", label, err)
		}
		return "", dnderr.InvalidArgumentf("input ended before %s was entered", label)
	}
	return strings.TrimSpace(a.in.Text()), nil
}

func (a *App) promptText(label string) (string, error) {
	return a.readLine(label)
}

// promptInt asks again until a number is entered. Empty input is zero when
// allowEmpty is set.
func (a *App) promptInt(label string, allowEmpty bool) (int, error) {
	for {
		line, err := a.readLine(label)
		if err != nil {
			return 0, err
		}
		if line == "" && allowEmpty {
			return 0, nil
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(a.out, "%q is not a number.\n", line)
	}
}

func (a *App) promptYesNo(question string) (bool, error) {
	fmt.Fprintf(a.out, "%s ", question)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return false, err
		}
		return false, dnderr.InvalidArgument("input ended before every proficiency was answered")
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.in.Text())), "y"), nil
}

func title(s string) string {
	return cases.Title(language.English).String(s)
}
