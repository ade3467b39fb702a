package tracker

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ytmovers/snapshot"
)

// ManualEntry builds a snapshot from operator-typed counts for every video
// in the registry, prompting on w and reading from r. Invalid numbers
// re-prompt; EOF before all entries are collected returns an error.
func ManualEntry(r io.Reader, w io.Writer, reg snapshot.Registry, now time.Time) (*snapshot.Snapshot, error) {
	keys := make([]string, 0, len(reg))
	for key := range reg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	scanner := bufio.NewScanner(r)
	videos := make(map[string]snapshot.Metrics, len(keys))

	fmt.Fprintln(w, "Enter current YouTube stats for tracked videos:")
	fmt.Fprintln(w, "------------------------------------------------")
	fmt.Fprintln(w)

	for _, key := range keys {
		tv := reg[key]
		label := tv.Label
		if label == "" {
			label = key
		}

		fmt.Fprintf(w, "Channel:  %s\n", tv.ChannelName)
		fmt.Fprintf(w, "Video ID: %s\n", tv.VideoID)
		fmt.Fprintf(w, "Label:    %s\n", label)

		views, err := promptCount(scanner, w, "Views")
		if err != nil {
			return nil, err
		}
		likes, err := promptCount(scanner, w, "Likes")
		if err != nil {
			return nil, err
		}
		comments, err := promptCount(scanner, w, "Comments")
		if err != nil {
			return nil, err
		}
		subscribers, err := promptCount(scanner, w, "Subscribers")
		if err != nil {
			return nil, err
		}

		videos[key] = snapshot.Metrics{
			ChannelName: tv.ChannelName,
			VideoID:     tv.VideoID,
			Views:       views,
			Likes:       likes,
			Comments:    comments,
			Subscribers: subscribers,
			Label:       label,
		}

		fmt.Fprintln(w)
	}

	return snapshot.New(uuid.NewString(), now, videos)
}

// promptCount reads one non-negative integer, re-prompting on bad input.
func promptCount(scanner *bufio.Scanner, w io.Writer, name string) (int64, error) {
	for {
		fmt.Fprintf(w, "  %s: ", name)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}

		value, err := strconv.ParseInt(strings.TrimSpace(scanner.Text()), 10, 64)
		if err != nil || value < 0 {
			fmt.Fprintf(w, "  please enter a non-negative whole number\n")
			continue
		}
		return value, nil
	}
}
