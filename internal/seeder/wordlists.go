package seeder

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// LoadWordLists reads each list from its file, one entry per non-blank line.
// A missing file yields an empty list; the generator's policy decides later
// whether that is fatal.
func LoadWordLists(paths WordListPaths) (WordLists, error) {
	var (
		lists WordLists
		err   error
	)
	if lists.FirstNames, err = loadWordFile(paths.FirstNames); err != nil {
		return WordLists{}, err
	}
	if lists.LastNames, err = loadWordFile(paths.LastNames); err != nil {
		return WordLists{}, err
	}
	if lists.Cities, err = loadWordFile(paths.Cities); err != nil {
		return WordLists{}, err
	}
	if lists.Streets, err = loadWordFile(paths.Streets); err != nil {
		return WordLists{}, err
	}
	return lists, nil
}

func loadWordFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return words, nil
}
