package main

import "github.com/bwmarrin/discordgo"

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func (o options) stringValue(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (o options) floatValue(name string) float64 {
	if opt, ok := o[name]; ok {
		return opt.FloatValue()
	}
	return 0
}

func (o options) intValue(name string) int64 {
	if opt, ok := o[name]; ok {
		return opt.IntValue()
	}
	return 0
}

func (o options) stringPtr(name string) *string {
	if opt, ok := o[name]; ok {
		v := opt.StringValue()
		return &v
	}
	return nil
}

func (o options) floatPtr(name string) *float64 {
	if opt, ok := o[name]; ok {
		v := opt.FloatValue()
		return &v
	}
	return nil
}

// interactionUser returns the invoking user whether the interaction came from
// a guild (Member set) or a DM (User set).
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}
