package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE entities (
				id VARCHAR(255) PRIMARY KEY,
				template_id VARCHAR(255) NOT NULL,
				status VARCHAR(100) NOT NULL,
				title TEXT NOT NULL,
				requester_id VARCHAR(255) NOT NULL DEFAULT '',
				assignee_id VARCHAR(255),
				fields JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_entities_template_id ON entities(template_id);
			CREATE INDEX idx_entities_status ON entities(status);
			CREATE INDEX idx_entities_requester_id ON entities(requester_id);

			CREATE TABLE comments (
				id VARCHAR(255) PRIMARY KEY,
				entity_id VARCHAR(255) NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
				author_id VARCHAR(255) NOT NULL DEFAULT '',
				body TEXT NOT NULL,
				is_system BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_comments_entity_id ON comments(entity_id);

			CREATE TABLE tasks (
				id VARCHAR(255) PRIMARY KEY,
				entity_id VARCHAR(255) NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
				title TEXT NOT NULL,
				done BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_tasks_entity_id ON tasks(entity_id);

			CREATE TABLE workflow_templates (
				id VARCHAR(255) PRIMARY KEY,
				definition JSONB NOT NULL
			);
		`,
	}
}
