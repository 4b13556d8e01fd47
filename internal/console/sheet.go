package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
)

func printSheet(out io.Writer, c *character.Character) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(w, "Level %d %s %s\t%s\t%s\n", c.Level, c.Race, c.Class, c.Alignment, c.Background)
	fmt.Fprintf(w, "HP\t%d/%d (+%d temp)\tHit dice\t%s\n", c.HitPoints.Current, c.HitPoints.Max, c.HitPoints.Temporary, c.HitDice)
	fmt.Fprintf(w, "AC\t%d\tInitiative\t%+d\n", c.ArmorClass, c.Initiative)
	fmt.Fprintf(w, "Speed\t%d\tProficiency\t%+d\n", c.Speed, c.Proficiency)
	fmt.Fprintf(w, "Passive perception\t%d\n", c.PassivePerception)
	fmt.Fprintf(w, "Spell attack\t%+d\tSpell DC\t%d\n", c.SpellAttack, c.SpellDC)
	if c.ClassSpellResource.Name != "" {
		fmt.Fprintf(w, "%s\t%d/%d\n", c.ClassSpellResource.Name, c.ClassSpellResource.Current, c.ClassSpellResource.Maximum)
	}

	fmt.Fprintln(w)
	for _, attr := range shared.Attributes {
		score, _ := c.Stat(attr)
		fmt.Fprintf(w, "%s\t%d\t%+d\n", attr.Short(), score, character.Modifier(score))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Saving throws")
	for _, e := range c.SavingThrows {
		fmt.Fprintf(w, "  %s\t%+d\t%s\n", e.Name, e.Modifier, mark(e.Proficient))
	}
	fmt.Fprintln(w, "Skills")
	for _, e := range c.Skills {
		fmt.Fprintf(w, "  %s\t%+d\t%s\n", e.Name, e.Modifier, mark(e.Proficient))
	}

	if len(c.Weapons) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Weapons")
		for _, wpn := range c.Weapons {
			extra := ""
			if wpn.HasProc() {
				extra = " +" + string(wpn.Proc)
			}
			fmt.Fprintf(w, "  %s\t%s%s\t%s\t%s\n", wpn.Name, wpn.Damage, extra, wpn.Stat, mark(wpn.Proficient))
		}
	}
	if len(c.Armors) > 0 {
		fmt.Fprintln(w, "Armor")
		for _, a := range c.Armors {
			fmt.Fprintf(w, "  %s\t%d\n", a.Name, a.BaseAC)
		}
	}

	fmt.Fprintln(w)
	p := c.Purse
	fmt.Fprintf(w, "Purse\t%dcp %dsp %dep %dgp %dpp\n", p.Copper, p.Silver, p.Electrum, p.Gold, p.Platinum)
	for _, list := range []struct {
		label string
		items []string
	}{
		{"Tools", c.Tools},
		{"Misc", c.Misc},
		{"Scrolls", c.Scrolls},
		{"Potions", c.Potions},
	} {
		if len(list.items) > 0 {
			fmt.Fprintf(w, "%s\t%s\n", list.label, strings.Join(list.items, ", "))
		}
	}

	return w.Flush()
}

func mark(proficient bool) string {
	if proficient {
		return "*"
	}
	return ""
}
