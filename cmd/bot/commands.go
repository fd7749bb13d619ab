package main

import "github.com/bwmarrin/discordgo"

var (
	minRating       = 0.5
	minPage         = 1.0
	adminPermission = int64(discordgo.PermissionAdministrator)
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "review",
		Description: "Manage restaurant reviews",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a new review",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "restaurant", Description: "Restaurant name", Required: true},
					{Type: discordgo.ApplicationCommandOptionNumber, Name: "rating", Description: "Rating (0.5 to 5.0)", Required: true, MinValue: &minRating, MaxValue: 5.0},
					{Type: discordgo.ApplicationCommandOptionString, Name: "items", Description: "Up to 12 dishes/drinks, comma separated", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "review", Description: "Your experience (20-2000 characters)", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "district", Description: "District where the restaurant is", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "Show one review by ID",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Review ID", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List reviews with filters and pagination",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "filter", Description: "Which reviews to list", Required: true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "own", Value: "own"},
							{Name: "district", Value: "district"},
							{Name: "all", Value: "all"},
						},
					},
					{Type: discordgo.ApplicationCommandOptionString, Name: "district", Description: "District (only with filter=district)"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "page", Description: "Page number (default 1)", MinValue: &minPage},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "edit",
				Description: "Edit fields of an existing review",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Review ID", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "restaurant", Description: "New restaurant name"},
					{Type: discordgo.ApplicationCommandOptionNumber, Name: "rating", Description: "New rating (0.5 to 5.0)", MinValue: &minRating, MaxValue: 5.0},
					{Type: discordgo.ApplicationCommandOptionString, Name: "items", Description: "New item list, comma separated"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "review", Description: "New review text"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "district", Description: "New district"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "url", Description: "New restaurant URL"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "menu", Description: "New menu link"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete a review by ID",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Review ID", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "help",
				Description: "Show help for all review subcommands",
			},
		},
	},
	{
		Name:                     "config",
		Description:              "Configure the bot",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set-channel",
				Description: "Set the channel where reviews are published",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Text channel for reviews", Required: true,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
		},
	},
}

func (app *application) registerCommands() error {
	_, err := app.session.ApplicationCommandBulkOverwrite(app.config.discord.appID, app.config.discord.guildID, commands)
	if err != nil {
		return err
	}
	app.logger.Infow("slash commands registered", "guild_id", app.config.discord.guildID)
	return nil
}
