package config

import (
	"context"
	"strings"

	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/usage"
)

func Get(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		key := inv.String("key")
		value, found := deps.Provider.Get(key)
		if !found {
			return usage.Message("%s has no value.", key)
		}
		inv.Reply("%s", value)
		return nil
	}
}

func Set(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		key, value := inv.String("key"), inv.String("value")

		_, existed := deps.Provider.Get(key)
		if err := deps.Provider.Set(key, value); err != nil {
			return usage.Message("Could not set %s: %v", key, err)
		}

		action := "added"
		if existed {
			action = "updated"
		}
		inv.Reply("%s %s=%s", action, key, value)
		return nil
	}
}

// Unset removes one key, or every key with --all.
func Unset(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		key := inv.String("key")
		all := inv.Bool("all")

		switch {
		case all && key != "":
			return usage.Message("--all does not take a key.")
		case all:
			for _, k := range deps.Keys() {
				if err := deps.Provider.Unset(k.Name); err != nil {
					return err
				}
			}
			inv.Reply("all config entries removed")
			return nil
		case key == "":
			return usage.Message("Name a key to unset, or pass --all.")
		}

		if err := deps.Provider.Unset(key); err != nil {
			return err
		}
		inv.Reply("unset %s", key)
		return nil
	}
}

// List prints key=value for every visible key, in documentation order.
func List(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		values, err := deps.Provider.GetAll()
		if err != nil {
			return err
		}

		var b strings.Builder
		for _, k := range deps.Keys() {
			if v, ok := values[k.Name]; ok {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(k.Name + "=" + v)
			}
		}
		inv.Reply("%s", b.String())
		return nil
	}
}
