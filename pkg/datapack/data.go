package datapack

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
)

// ErrInvalidRecipe is returned for recipes the game would reject.
var ErrInvalidRecipe = errors.New("invalid recipe")

// Item is an item stack reference used by advancements and recipes.
type Item struct {
	Item string `json:"item"`
	NBT  string `json:"nbt,omitempty"`
}

// Advancement is the JSON body of data/<ns>/advancements/<name>.json.
type Advancement struct {
	Display      *AdvancementDisplay  `json:"display,omitempty"`
	Parent       string               `json:"parent,omitempty"`
	Criteria     map[string]Criterion `json:"criteria"`
	Requirements [][]string           `json:"requirements,omitempty"`
	Rewards      *Rewards             `json:"rewards,omitempty"`
}

type Criterion struct {
	Trigger    string          `json:"trigger"`
	Conditions json.RawMessage `json:"conditions,omitempty"`
}

type AdvancementDisplay struct {
	Icon           Item   `json:"icon"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Frame          string `json:"frame,omitempty"`
	Background     string `json:"background,omitempty"`
	ShowToast      bool   `json:"show_toast"`
	AnnounceToChat bool   `json:"announce_to_chat"`
	Hidden         bool   `json:"hidden"`
}

type Rewards struct {
	Recipes    []string `json:"recipes,omitempty"`
	Loot       []string `json:"loot,omitempty"`
	Experience int      `json:"experience,omitempty"`
	Function   string   `json:"function,omitempty"`
}

// Recipe is any recipe body. The concrete types carry their own "type" field.
type Recipe interface {
	RecipeType() string
	validate() error
}

type CraftingResult struct {
	Count int    `json:"count"`
	Item  string `json:"item"`
}

type Cooking struct {
	Type        string  `json:"type"`
	Group       string  `json:"group,omitempty"`
	Ingredient  []Item  `json:"ingredient"`
	Result      string  `json:"result"`
	Experience  float64 `json:"experience"`
	CookingTime int     `json:"cookingtime,omitempty"`
}

func (c Cooking) RecipeType() string { return c.Type }

func (c Cooking) validate() error {
	if len(c.Ingredient) == 0 {
		return fmt.Errorf("%w: %s has no ingredient", ErrInvalidRecipe, c.Type)
	}
	return nil
}

func Smelting(ingredient []Item, result string, experience float64) Cooking {
	return Cooking{Type: "minecraft:smelting", Ingredient: ingredient, Result: result, Experience: experience}
}

func Blasting(ingredient []Item, result string, experience float64) Cooking {
	return Cooking{Type: "minecraft:blasting", Ingredient: ingredient, Result: result, Experience: experience}
}

func Smoking(ingredient []Item, result string, experience float64) Cooking {
	return Cooking{Type: "minecraft:smoking", Ingredient: ingredient, Result: result, Experience: experience}
}

func CampfireCooking(ingredient []Item, result string, experience float64) Cooking {
	return Cooking{Type: "minecraft:campfire_cooking", Ingredient: ingredient, Result: result, Experience: experience}
}

type CraftingShaped struct {
	Type    string            `json:"type"`
	Group   string            `json:"group,omitempty"`
	Pattern []string          `json:"pattern"`
	Key     map[string][]Item `json:"key"`
	Result  CraftingResult    `json:"result"`
}

func (c CraftingShaped) RecipeType() string { return c.Type }

func (c CraftingShaped) validate() error {
	if len(c.Pattern) != 3 {
		return fmt.Errorf("%w: pattern must be 3 lines", ErrInvalidRecipe)
	}
	for _, row := range c.Pattern {
		if len(row) != 3 {
			return fmt.Errorf("%w: pattern lines must be 3 characters long", ErrInvalidRecipe)
		}
	}
	return nil
}

// Shaped builds a shaped recipe from a 3x3 grid of items, nil meaning an
// empty slot. Keys are assigned a, b, c... in first-seen order.
func Shaped(grid [3][3]*Item, result CraftingResult) CraftingShaped {
	r := CraftingShaped{
		Type:   "minecraft:crafting_shaped",
		Key:    make(map[string][]Item),
		Result: result,
	}
	keys := make(map[Item]string)
	next := 'a'
	for _, row := range grid {
		line := make([]rune, 0, 3)
		for _, it := range row {
			if it == nil {
				line = append(line, ' ')
				continue
			}
			k, ok := keys[*it]
			if !ok {
				k = string(next)
				next++
				keys[*it] = k
				r.Key[k] = []Item{*it}
			}
			line = append(line, []rune(k)...)
		}
		r.Pattern = append(r.Pattern, string(line))
	}
	return r
}

type CraftingShapeless struct {
	Type        string         `json:"type"`
	Group       string         `json:"group,omitempty"`
	Ingredients [][]Item       `json:"ingredients"`
	Result      CraftingResult `json:"result"`
}

func (c CraftingShapeless) RecipeType() string { return c.Type }

func (c CraftingShapeless) validate() error {
	if len(c.Ingredients) == 0 || len(c.Ingredients) > 9 {
		return fmt.Errorf("%w: shapeless recipes take 1 to 9 ingredients", ErrInvalidRecipe)
	}
	return nil
}

func Shapeless(result CraftingResult, ingredients ...[]Item) CraftingShapeless {
	return CraftingShapeless{Type: "minecraft:crafting_shapeless", Ingredients: ingredients, Result: result}
}

type Smithing struct {
	Type     string `json:"type"`
	Group    string `json:"group,omitempty"`
	Base     Item   `json:"base"`
	Addition Item   `json:"addition"`
	Result   Item   `json:"result"`
}

func (s Smithing) RecipeType() string { return s.Type }

func (s Smithing) validate() error { return nil }

// CraftingSpecial is one of the built-in recipes such as
// minecraft:crafting_special_bookcloning.
type CraftingSpecial struct {
	Type string `json:"type"`
}

func (c CraftingSpecial) RecipeType() string { return c.Type }

func (c CraftingSpecial) validate() error { return nil }

type resource struct {
	name string
	body any
}

// Advancement registers an advancement under data/<ns>/advancements.
func (ns *Namespace) Advancement(name string, a Advancement) error {
	n, err := PathName(name)
	if err != nil {
		return fmt.Errorf("advancement in %s: %w", ns.name, err)
	}
	if len(a.Criteria) == 0 {
		return fmt.Errorf("advancement %s:%s: no criteria", ns.name, n)
	}
	ns.advancements = append(ns.advancements, resource{name: n, body: a})
	return nil
}

// Recipe registers a recipe under data/<ns>/recipes.
func (ns *Namespace) Recipe(name string, r Recipe) error {
	n, err := PathName(name)
	if err != nil {
		return fmt.Errorf("recipe in %s: %w", ns.name, err)
	}
	if err := r.validate(); err != nil {
		return fmt.Errorf("recipe %s:%s: %w", ns.name, n, err)
	}
	ns.recipes = append(ns.recipes, resource{name: n, body: r})
	return nil
}

func (ns *Namespace) renderResources() ([]File, error) {
	var files []File
	for _, group := range []struct {
		dir   string
		items []resource
	}{{"advancements", ns.advancements}, {"recipes", ns.recipes}} {
		for _, r := range group.items {
			data, err := json.MarshalIndent(r.body, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s %s:%s: %w", group.dir, ns.name, r.name, err)
			}
			files = append(files, File{Path: path.Join("data", ns.name, group.dir, r.name+".json"), Data: data})
		}
	}
	return files, nil
}
