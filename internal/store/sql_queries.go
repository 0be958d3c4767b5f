// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	saveThread = `
		INSERT INTO threads (
			id,
			type,
			distribution,
			last_message,
			has_left,
			pending_members,
			pinned,
			position,
			sender,
			started,
			timestamp,
			unread_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			type            = excluded.type,
			distribution    = excluded.distribution,
			last_message    = excluded.last_message,
			has_left        = excluded.has_left,
			pending_members = excluded.pending_members,
			pinned          = excluded.pinned,
			position        = excluded.position,
			sender          = excluded.sender,
			started         = excluded.started,
			timestamp       = excluded.timestamp,
			unread_count    = excluded.unread_count;`

	getSingleThread = `
		SELECT
			id,
			type,
			distribution,
			last_message,
			has_left,
			pending_members,
			pinned,
			position,
			sender,
			started,
			timestamp,
			unread_count
		FROM threads
		WHERE id = ?;`

	getAllThreads = `
		SELECT
			id,
			type,
			distribution,
			last_message,
			has_left,
			pending_members,
			pinned,
			position,
			sender,
			started,
			timestamp,
			unread_count
		FROM threads;`

	saveMessage = `
		INSERT INTO messages (
			id,
			thread_id,
			type,
			sender,
			sender_device,
			sent,
			received,
			expiration,
			plain,
			html,
			members,
			monitors,
			pending_members,
			user_agent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			thread_id       = excluded.thread_id,
			type            = excluded.type,
			sender          = excluded.sender,
			sender_device   = excluded.sender_device,
			sent            = excluded.sent,
			received        = excluded.received,
			expiration      = excluded.expiration,
			plain           = excluded.plain,
			html            = excluded.html,
			members         = excluded.members,
			monitors        = excluded.monitors,
			pending_members = excluded.pending_members,
			user_agent      = excluded.user_agent;`

	getThreadMessages = `
		SELECT
			id,
			thread_id,
			type,
			sender,
			sender_device,
			sent,
			received,
			expiration,
			plain,
			html,
			members,
			monitors,
			pending_members,
			user_agent
		FROM messages
		WHERE thread_id = ?;`

	deleteMessageAttachments = `
		DELETE FROM attachments WHERE message_id = ?;`

	saveAttachment = `
		INSERT INTO attachments (message_id, idx, name, type, size, data)
		VALUES (?, ?, ?, ?, ?, ?);`

	getMessageAttachments = `
		SELECT name, type, size, data
		FROM attachments
		WHERE message_id = ?
		ORDER BY idx;`

	saveContact = `
		INSERT INTO contacts (id, name, tag)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			tag  = excluded.tag;`

	getAllContacts = `
		SELECT id, name, tag FROM contacts;`

	saveDevice = `
		INSERT INTO devices (id, name, created, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name      = excluded.name,
			created   = excluded.created,
			last_seen = excluded.last_seen;`

	getAllDevices = `
		SELECT id, name, created, last_seen FROM devices;`

	getStateValue = `
		SELECT value FROM state WHERE key = ?;`

	putStateValue = `
		INSERT INTO state (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`
)
