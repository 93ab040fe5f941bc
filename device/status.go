package device

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mastercactapus/lzr/coord"
)

func parseCoords(data string) (p coord.Point, err error) {
	parts := strings.Split(data, ",")
	if len(parts) < 2 {
		return p, errors.New("invalid number of elements")
	}
	p.X, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return p, err
	}
	p.Y, err = strconv.ParseFloat(parts[1], 64)
	return p, err
}

func parseFeedPower(data string) (feed, power float64, err error) {
	parts := strings.Split(data, ",")
	if len(parts) != 2 {
		return 0, 0, errors.New("invalid number of elements")
	}
	feed, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, err
	}
	power, err = strconv.ParseFloat(parts[1], 64)
	return feed, power, err
}

// parseStatus updates stat from a `<...>` report line. Fields not
// present in the report keep their previous values.
func parseStatus(stat State, data string) (*State, error) {
	data = strings.TrimSpace(data)
	data = strings.TrimPrefix(data, "<")
	data = strings.TrimSuffix(data, ">")
	parts := strings.Split(data, "|")
	stat.Status = parts[0]
	var err error
	for _, s := range parts[1:] {
		sParts := strings.SplitN(s, ":", 2)
		if len(sParts) != 2 {
			continue
		}
		switch sParts[0] {
		case "MPos", "WPos":
			stat.Pos, err = parseCoords(sParts[1])
		case "FS":
			stat.Feed, stat.Power, err = parseFeedPower(sParts[1])
		case "F":
			stat.Feed, err = strconv.ParseFloat(sParts[1], 64)
		}
		if err != nil {
			return nil, err
		}
	}
	return &stat, nil
}
