package quiz

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// blockLines is the number of non-empty lines a question block needs:
// question, four options and the answer.
const blockLines = 6

var numberPrefix = regexp.MustCompile(`^(\d+)[.)]\s*`)

// Parse reads question blocks separated by blank lines:
//
//	1. What is the capital of France?
//	a) Paris
//	b) Berlin
//	c) London
//	d) Madrid
//	Answer: d) Madrid
//
// Blocks with fewer than six lines are skipped, extra lines are ignored.
// A line reading DONE ends the input.
func Parse(r io.Reader) ([]Question, error) {
	var (
		blocks  [][]string
		current []string
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.EqualFold(line, "DONE") {
			break
		}
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	var questions []Question
	for _, b := range blocks {
		if len(b) < blockLines {
			continue
		}
		q := Question{
			Number:  len(questions) + 1,
			Text:    b[0],
			Options: [4]string{b[1], b[2], b[3], b[4]},
			Answer:  parseAnswer(b[5]),
		}
		if m := numberPrefix.FindStringSubmatch(b[0]); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				q.Number = n
			}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) ([]Question, error) {
	return Parse(strings.NewReader(s))
}

func parseAnswer(line string) string {
	if len(line) >= len("answer:") && strings.EqualFold(line[:len("answer:")], "answer:") {
		return strings.TrimSpace(line[len("answer:"):])
	}
	return strings.TrimSpace(line)
}
