// Package tracelog parses per-node simulator logs into a message trace.
//
// Each node writes <id>.log. Protocol lines carry a bracketed timestamp,
// a send/recv marker and a JSON payload:
//
//	[1234.5] send [broadcast] {"src":1,"request":"req-7","type":"prepare"}
//	[1236.0] recv {"src":1,"request":"req-7","type":"prepare"}
//
// Consensus events are free-form lines containing "new view", "reset
// timeout" or "enough vote", with the view number as the last token where
// one applies. Sends pair with receives on (src, dst, request, type);
// unmatched halves are logged and dropped, never fatal.
package tracelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Broadcast is the destination marker for sends addressed to every
// other node.
const Broadcast = "broadcast"

// Packet is one delivered protocol message, send and receive side joined.
type Packet struct {
	SendTime int64
	RecvTime int64
	Src      int
	Dst      int
	Request  string
	Type     string
}

// Event is a consensus state change observed on one node.
type Event struct {
	Node      int
	Type      string // "new-view", "reset-timeout", "enough-vote"
	Timestamp int64
	View      int
}

// Trace is a fully parsed log directory.
type Trace struct {
	Nodes   int
	Packets []Packet
	Events  []Event
}

type payload struct {
	Src     int    `json:"src"`
	Request string `json:"request"`
	Type    string `json:"type"`
}

// ParseDir reads every <id>.log in dir and returns the paired trace.
// Packets and events come back in a deterministic order.
func ParseDir(dir string) (*Trace, error) {
	logs, err := loadLogs(dir)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, errors.Errorf("no node logs found in %s", dir)
	}

	nodes := make([]int, 0, len(logs))
	for id := range logs {
		nodes = append(nodes, id)
	}
	sort.Ints(nodes)

	tr := &Trace{Nodes: len(nodes)}
	tr.Packets = pairPackets(logs, nodes)
	tr.Events = parseEvents(logs, nodes)
	return tr, nil
}

func loadLogs(dir string) (map[int][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read log dir %s", dir)
	}
	logs := map[int][]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".log") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(name, ".log"))
		if err != nil {
			log.Warnf("skipping log with non-numeric node id: %s", name)
			continue
		}
		lines, err := readLines(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		logs[id] = lines
	}
	return logs, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "scan %s", path)
	}
	return lines, nil
}

// bracketed strips [..] from a token and parses it as a timestamp,
// rounded to the nearest integer.
func bracketed(tok string) (int64, error) {
	s := strings.TrimSuffix(strings.TrimPrefix(tok, "["), "]")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "timestamp %q", tok)
	}
	return int64(math.Round(v)), nil
}

func parsePayload(line string) (payload, error) {
	i := strings.Index(line, "{")
	if i < 0 {
		return payload{}, errors.New("no payload")
	}
	var p payload
	if err := json.Unmarshal([]byte(line[i:]), &p); err != nil {
		return payload{}, errors.Wrap(err, "payload")
	}
	return p, nil
}

func pairKey(src, dst int, request, typ string) string {
	return fmt.Sprintf("%d_%d_%s_%s", src, dst, request, typ)
}

func pairPackets(logs map[int][]string, nodes []int) []Packet {
	sends := map[string]Packet{}
	recvs := map[string]int64{}

	record := func(key string, p Packet) {
		if _, dup := sends[key]; dup {
			log.Warnf("duplicate packet: %s", key)
		}
		sends[key] = p
	}

	for _, node := range nodes {
		for _, line := range logs[node] {
			isSend := strings.Contains(line, "send")
			isRecv := strings.Contains(line, "recv")
			if (!isSend && !isRecv) || !strings.Contains(line, "request") {
				continue
			}
			toks := strings.Fields(line)
			if len(toks) < 2 {
				continue
			}
			ts, err := bracketed(toks[0])
			if err != nil {
				log.Warnf("node %d: %v", node, err)
				continue
			}
			pl, err := parsePayload(line)
			if err != nil {
				log.Warnf("node %d: %v", node, err)
				continue
			}

			if isSend {
				if len(toks) < 3 {
					continue
				}
				dst := strings.TrimSuffix(strings.TrimPrefix(toks[2], "["), "]")
				pkt := Packet{SendTime: ts, RecvTime: -1, Src: pl.Src, Request: pl.Request, Type: pl.Type}
				if dst == Broadcast {
					for _, other := range nodes {
						if other == node {
							continue
						}
						p := pkt
						p.Dst = other
						record(pairKey(node, other, p.Request, p.Type), p)
					}
				} else {
					d, err := strconv.Atoi(dst)
					if err != nil {
						log.Warnf("node %d: bad destination %q", node, dst)
						continue
					}
					pkt.Dst = d
					record(pairKey(node, d, pkt.Request, pkt.Type), pkt)
				}
			} else {
				key := pairKey(pl.Src, node, pl.Request, pl.Type)
				if _, dup := recvs[key]; dup {
					log.Warnf("%s has already been received", key)
				}
				recvs[key] = ts
			}
		}
	}

	keys := make([]string, 0, len(sends))
	for k := range sends {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pkts []Packet
	for _, key := range keys {
		ts, ok := recvs[key]
		if !ok {
			log.Warnf("missing recv for packet %s", key)
			continue
		}
		p := sends[key]
		p.RecvTime = ts
		pkts = append(pkts, p)
		delete(recvs, key)
	}
	if len(recvs) != 0 {
		log.Warnf("%d receives have no matching send", len(recvs))
	}

	sort.Slice(pkts, func(i, j int) bool {
		a, b := pkts[i], pkts[j]
		if a.SendTime != b.SendTime {
			return a.SendTime < b.SendTime
		}
		if a.Src != b.Src {
			return a.Src < b.Src
		}
		if a.Dst != b.Dst {
			return a.Dst < b.Dst
		}
		if a.Request != b.Request {
			return a.Request < b.Request
		}
		return a.Type < b.Type
	})
	return pkts
}

func parseEvents(logs map[int][]string, nodes []int) []Event {
	var events []Event
	for _, node := range nodes {
		for _, line := range logs[node] {
			var typ string
			switch {
			case strings.Contains(line, "new view"):
				typ = "new-view"
			case strings.Contains(line, "reset timeout"):
				typ = "reset-timeout"
			case strings.Contains(line, "enough vote"):
				typ = "enough-vote"
			default:
				continue
			}
			toks := strings.Fields(line)
			if len(toks) == 0 {
				continue
			}
			ts, err := bracketed(toks[0])
			if err != nil {
				log.Warnf("node %d: %v", node, err)
				continue
			}
			ev := Event{Node: node, Type: typ, Timestamp: ts}
			if typ != "enough-vote" {
				if v, err := strconv.Atoi(toks[len(toks)-1]); err == nil {
					ev.View = v
				}
			}
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		if a.Node != b.Node {
			return a.Node < b.Node
		}
		return a.Type < b.Type
	})
	return events
}
