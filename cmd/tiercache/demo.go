// Copyright 2025 The tiercache Authors
// This file is part of tiercache.
//
// tiercache is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tiercache is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tiercache. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/tiercache/tiercache/common/lru"
	"github.com/tiercache/tiercache/tiered"
	"github.com/urfave/cli/v2"
)

var demoCommand = &cli.Command{
	Action:    runDemos,
	Name:      "demo",
	Usage:     "Run the built-in cache walkthroughs and verify their outcome",
	ArgsUsage: "[deque|lru|slab|multilevel|all]",
	Flags:     configFlags,
	Description: `
Each walkthrough drives one of the cache structures through a fixed sequence of
operations and prints the expected and actual state after every step. The
command fails if any step diverges. The multilevel walkthrough honours the
--cache.policy flag; its capacities are fixed.`,
}

// demos lists the walkthroughs in the order "all" runs them.
var demos = []struct {
	name string
	run  func(c *checker, policy string)
}{
	{"deque", demoDeque},
	{"lru", demoLRU},
	{"slab", demoSlab},
	{"multilevel", demoMultiLevel},
}

// checker prints expectations side by side with the observed state and counts
// the steps that diverge.
type checker struct {
	w          io.Writer
	mismatches int
}

func (c *checker) section(title string) {
	fmt.Fprintf(c.w, "\n== %s\n", title)
}

func (c *checker) check(step, expected, actual string) {
	mark := "ok"
	if expected != actual {
		mark = "MISMATCH"
		c.mismatches++
	}
	fmt.Fprintf(c.w, "%-8s %s\n         expected: %s\n         actual:   %s\n", mark, step, expected, actual)
}

func runDemos(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	which := "all"
	if ctx.NArg() > 1 {
		return fmt.Errorf("too many arguments, usage: %s", ctx.Command.ArgsUsage)
	} else if ctx.NArg() == 1 {
		which = ctx.Args().Get(0)
	}
	c := &checker{w: ctx.App.Writer}
	if err := runDemo(c, which, cfg.Cache.Policy); err != nil {
		return err
	}
	if c.mismatches > 0 {
		return fmt.Errorf("%d step(s) diverged from the expected state", c.mismatches)
	}
	return nil
}

func runDemo(c *checker, which, policy string) error {
	found := false
	for _, d := range demos {
		if which == "all" || which == d.name {
			d.run(c, policy)
			found = true
		}
	}
	if !found {
		return fmt.Errorf("unknown demo %q", which)
	}
	return nil
}

func join[T any](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

func demoDeque(c *checker, _ string) {
	c.section("ordering structure")

	var l lru.List[int]
	l.Append(1)
	l.Append(2)
	three := l.Append(3)
	l.Append(4)
	l.Append(5)
	c.check("append 1..5", "1 2 3 4 5", join(l.Values()))

	l.PopHead()
	c.check("pop head", "2 3 4 5", join(l.Values()))

	l.Remove(three)
	l.Append(3)
	c.check("remove 3 and re-append it", "2 4 5 3", join(l.Values()))

	for i := 0; i < 4; i++ {
		l.PopHead()
	}
	l.Append(5)
	l.Append(6)
	c.check("drain and reuse", "5 6", join(l.Values()))
}

func demoLRU(c *checker, _ string) {
	c.section("lru cache")

	cache, _ := lru.NewBasicLRU[int, int](3)
	cache.Add(1, 1)
	cache.Add(2, 2)
	cache.Add(3, 3)
	c.check("add 1, 2, 3", "1 2 3", join(cache.Keys()))
	cache.Add(4, 4)
	c.check("add 4 evicts 1", "2 3 4", join(cache.Keys()))
	cache.Add(2, 4)
	v, _ := cache.Peek(2)
	c.check("update 2 promotes it", "3 4 2 (2=4)", fmt.Sprintf("%s (2=%d)", join(cache.Keys()), v))
	cache.Add(5, 5)
	c.check("add 5 evicts 3", "4 2 5", join(cache.Keys()))

	cache, _ = lru.NewBasicLRU[int, int](3)
	cache.Add(1, 1)
	cache.Add(2, 2)
	cache.Add(3, 3)
	cache.Get(1)
	c.check("get 1 promotes it", "2 3 1", join(cache.Keys()))
	cache.Add(4, 4)
	c.check("add 4 evicts 2", "3 1 4", join(cache.Keys()))
}

func demoSlab(c *checker, _ string) {
	c.section("slab lru cache")

	cache, _ := lru.NewSlabLRU[string, int](3)
	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)
	c.check("add a, b, c", "a:1, b:2, c:3", cache.String())
	cache.Get("b")
	c.check("get b", "a:1, c:3, b:2", cache.String())
	cache.Add("c", 2)
	c.check("update c", "a:1, b:2, c:2", cache.String())

	slotA, _ := cache.Slot("a")
	cache.Add("d", 4)
	slotD, _ := cache.Slot("d")
	c.check("d reuses the slot of evicted a", fmt.Sprint(slotA), fmt.Sprint(slotD))
	cache.Add("e", 5)
	c.check("add d, e evicts a, b", "c:2, d:4, e:5", cache.String())
	cache.Get("c")
	c.check("get c", "d:4, e:5, c:2", cache.String())
}

func demoMultiLevel(c *checker, policy string) {
	users := tiered.MapFetcher(map[string]string{
		"user:1": "Alice",
		"user:2": "Bob",
		"user:3": "Stephen",
		"user:4": "David",
	})
	newCache := func() *tiered.Cache[string, string] {
		cache, err := tiered.NewWithConfig[string, string](tiered.Config{L1Capacity: 2, L2Capacity: 3, Policy: policy})
		if err != nil {
			c.check("create cache", "<nil>", err.Error())
			return nil
		}
		return cache
	}
	stats := func(cache *tiered.Cache[string, string]) string {
		s := cache.Stats()
		return fmt.Sprintf("l1=[%s] l2=[%s]", join(s.L1Keys), join(s.L2Keys))
	}

	c.section("multilevel cache: direct add")
	cache := newCache()
	if cache == nil {
		return
	}
	v, _ := cache.GetOrFetch("user:1", users)
	c.check("fetch user:1", "Alice", v)
	c.check("both tiers hold it", "l1=[user:1] l2=[user:1]", stats(cache))
	cache.Add("hello", "world")
	c.check("add hello goes to l1 only", "l1=[user:1 hello] l2=[user:1]", stats(cache))
	cache.Add("I am", "stephen")
	c.check("add evicts user:1 from l1", "l1=[hello I am] l2=[user:1]", stats(cache))

	c.section("multilevel cache: filling l1, then l2")
	cache = newCache()
	cache.GetOrFetch("user:1", users)
	cache.GetOrFetch("user:2", users)
	c.check("fetch user:1, user:2", "l1=[user:1 user:2] l2=[user:1 user:2]", stats(cache))
	cache.GetOrFetch("user:3", users)
	c.check("l1 evicts user:1", "l1=[user:2 user:3] l2=[user:1 user:2 user:3]", stats(cache))
	cache.GetOrFetch("user:4", users)
	c.check("l1 evicts user:2, l2 evicts user:1", "l1=[user:3 user:4] l2=[user:2 user:3 user:4]", stats(cache))

	c.section("multilevel cache: promotion")
	cache = newCache()
	cache.GetOrFetch("user:1", users)
	cache.GetOrFetch("user:2", users)
	cache.GetOrFetch("user:1", users)
	c.check("l1 hit leaves l2 alone", "l1=[user:2 user:1] l2=[user:1 user:2]", stats(cache))
	cache.GetOrFetch("user:3", users)
	c.check("l1 evicts user:2", "l1=[user:1 user:3] l2=[user:1 user:2 user:3]", stats(cache))
	cache.GetOrFetch("user:2", users)
	c.check("l2 hit promotes in both", "l1=[user:3 user:2] l2=[user:1 user:3 user:2]", stats(cache))

	c.section("multilevel cache: not found")
	cache = newCache()
	calls := 0
	counted := func(key string) (string, bool) {
		calls++
		return users(key)
	}
	cache.GetOrFetch("user:1", counted)
	cache.GetOrFetch("user:2", counted)
	for i := 0; i < 3; i++ {
		_, ok := cache.GetOrFetch("user:100", counted)
		c.check(fmt.Sprintf("user:100 lookup %d", i+1), "false", fmt.Sprint(ok))
	}
	c.check("misses leave both tiers alone", "l1=[user:1 user:2] l2=[user:1 user:2]", stats(cache))
	c.check("every miss reaches the source", "5", fmt.Sprint(calls))
}
