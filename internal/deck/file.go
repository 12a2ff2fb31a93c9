package deck

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/study"
)

// ErrUnsupportedFormat is returned for deck files that are neither YAML nor
// plain text.
var ErrUnsupportedFormat = errors.New("unsupported deck file format")

type fileCard struct {
	Question   string `yaml:"question"`
	Answer     string `yaml:"answer"`
	Category   string `yaml:"category"`
	Difficulty string `yaml:"difficulty"`
	Hint       string `yaml:"hint"`
}

type fileDeck struct {
	Name  string     `yaml:"name"`
	Cards []fileCard `yaml:"cards"`
}

// LoadFile reads a local deck. YAML files hold a list of cards or a mapping
// with a cards list; text files hold one "question | answer" per line.
// Cards are numbered from 1 in file order.
func LoadFile(path string) ([]model.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []fileCard
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = parseYAML(data)
	case ".txt", "":
		raw, err = parseText(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cards := make([]model.Card, 0, len(raw))
	for _, fc := range raw {
		cards = append(cards, model.Card{
			ID:         int64(len(cards) + 1),
			Question:   fc.Question,
			Answer:     fc.Answer,
			Category:   fc.Category,
			Difficulty: fc.Difficulty,
			Hint:       fc.Hint,
		})
	}
	cards = Normalize(cards)
	if len(cards) == 0 {
		return nil, fmt.Errorf("%s: %w", path, study.ErrEmptyDeck)
	}
	for i := range cards {
		cards[i].ID = int64(i + 1)
	}
	return cards, nil
}

func parseYAML(data []byte) ([]fileCard, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var cards []fileCard
		if err := root.Decode(&cards); err != nil {
			return nil, err
		}
		return cards, nil
	case yaml.MappingNode:
		var deck fileDeck
		if err := root.Decode(&deck); err != nil {
			return nil, err
		}
		return deck.Cards, nil
	case yaml.ScalarNode:
		if root.Tag == "!!null" {
			return nil, nil
		}
		return nil, fmt.Errorf("expected a list of cards or a cards mapping")
	default:
		return nil, fmt.Errorf("expected a list of cards or a cards mapping")
	}
}

func parseText(data []byte) ([]fileCard, error) {
	var cards []fileCard
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		question, answer, ok := strings.Cut(line, "|")
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"question | answer\"", lineNo)
		}
		cards = append(cards, fileCard{Question: question, Answer: answer})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
