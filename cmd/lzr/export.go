package main

import (
	"encoding/json"
	"io"
	"io/ioutil"

	"github.com/mastercactapus/lzr/coord"
	"github.com/mastercactapus/lzr/job"
	"github.com/mastercactapus/lzr/timeline"
	"github.com/mastercactapus/lzr/vm"
)

// programDoc is the parsed form of a program served to clients.
type programDoc struct {
	Segments []job.Segment
	Timeline []timeline.Entry
	Bounds   *coord.Rect
	Seconds  float64
}

func buildDoc(program string) programDoc {
	segs := vm.BuildString(program)
	tl := timeline.Build(segs)

	doc := programDoc{
		Segments: segs,
		Timeline: tl,
		Seconds:  timeline.Duration(tl).Seconds(),
	}
	if r, ok := job.Bounds(segs); ok {
		doc.Bounds = &r
	}
	return doc
}

func exportFile(w io.Writer, name string) error {
	data, err := ioutil.ReadFile(name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildDoc(string(data)))
}
