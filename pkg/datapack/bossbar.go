package datapack

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jwebster45206/mcdsl/pkg/command"
)

type BossbarSetting string

const (
	BossbarMax     BossbarSetting = "max"
	BossbarPlayers BossbarSetting = "players"
	BossbarValue   BossbarSetting = "value"
	BossbarVisible BossbarSetting = "visible"
)

type Color string

const (
	Blue   Color = "blue"
	Green  Color = "green"
	Pink   Color = "pink"
	Purple Color = "purple"
	Red    Color = "red"
	White  Color = "white"
	Yellow Color = "yellow"
)

type BossbarStyle string

const (
	Notched6  BossbarStyle = "notched_6"
	Notched10 BossbarStyle = "notched_10"
	Notched12 BossbarStyle = "notched_12"
	Notched20 BossbarStyle = "notched_20"
	Progress  BossbarStyle = "progress"
)

// Bossbar builds bossbar commands for one bar.
type Bossbar struct {
	id string
}

// Bossbar declares a bossbar. An empty name picks bossbar_<n>.
func (ns *Namespace) Bossbar(name string) (Bossbar, error) {
	if name == "" {
		return Bossbar{id: ns.name + ":" + ns.next("bossbar", func(string) bool { return false })}, nil
	}
	n, err := PathName(name)
	if err != nil {
		return Bossbar{}, err
	}
	return Bossbar{id: ns.name + ":" + n}, nil
}

// ID returns "namespace:name"
func (b Bossbar) ID() string { return b.id }

func (b Bossbar) Add(displayName string) string {
	return "bossbar add " + b.id + " " + textComponent(displayName)
}

func (b Bossbar) Remove() string { return "bossbar remove " + b.id }

func (b Bossbar) Get(s BossbarSetting) string { return "bossbar get " + b.id + " " + string(s) }

func (b Bossbar) SetColor(c Color) string { return b.set("color", string(c)) }

func (b Bossbar) SetMax(n int) string { return b.set("max", strconv.Itoa(n)) }

func (b Bossbar) SetName(name string) string { return b.set("name", textComponent(name)) }

func (b Bossbar) SetStyle(s BossbarStyle) string { return b.set("style", string(s)) }

func (b Bossbar) SetValue(v int) string { return b.set("value", strconv.Itoa(v)) }

func (b Bossbar) SetVisible(visible bool) string {
	return b.set("visible", strconv.FormatBool(visible))
}

// SetPlayers shows the bar to the given targets.
func (b Bossbar) SetPlayers(players ...command.EntityArg) (string, error) {
	parts := make([]string, len(players))
	for i, p := range players {
		s, err := p.Render()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return b.set("players", strings.Join(parts, " ")), nil
}

func (b Bossbar) set(field, value string) string {
	return "bossbar set " + b.id + " " + field + " " + value
}

// StoreTarget implements command.Storable for the bar's value.
func (b Bossbar) StoreTarget() string { return "bossbar " + b.id + " value" }

// MaxTarget is a command.Storable for the bar's max.
func (b Bossbar) MaxTarget() command.Storable { return bossbarMax(b.id) }

type bossbarMax string

func (m bossbarMax) StoreTarget() string { return "bossbar " + string(m) + " max" }

// textComponent renders plain text as a JSON text component.
func textComponent(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
