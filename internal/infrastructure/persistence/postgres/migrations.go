package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create user accounts, academic records and the level ladder
-- Version: 001

CREATE TABLE IF NOT EXISTS user_roles (
    id INTEGER PRIMARY KEY,
    name VARCHAR(20) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name VARCHAR(150) NOT NULL,
    email VARCHAR(254) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role_id INTEGER NOT NULL REFERENCES user_roles(id),
    school VARCHAR(255) NOT NULL DEFAULT '',
    system_score DOUBLE PRECISION NOT NULL DEFAULT 10.0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_score ON users(system_score DESC) WHERE is_active;
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role_id);

CREATE TABLE IF NOT EXISTS student_records (
    user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    grade INTEGER CHECK (grade BETWEEN 1 AND 13),
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_student_records_incomplete
    ON student_records(user_id) WHERE NOT is_completed;

CREATE TABLE IF NOT EXISTS teacher_profiles (
    user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    subject VARCHAR(255) NOT NULL DEFAULT '',
    qualification VARCHAR(255) NOT NULL DEFAULT '',
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS score_levels (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    icon VARCHAR(255) NOT NULL DEFAULT '',
    max_limit DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_score_levels_limit ON score_levels(max_limit);

-- One row per applied yearly promotion; the unique year makes a
-- duplicate run a no-op.
CREATE TABLE IF NOT EXISTS promotion_runs (
    academic_year INTEGER PRIMARY KEY,
    advanced INTEGER NOT NULL DEFAULT 0,
    completed INTEGER NOT NULL DEFAULT 0,
    applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration001Down = `
DROP TABLE IF EXISTS promotion_runs;
DROP TABLE IF EXISTS score_levels;
DROP TABLE IF EXISTS teacher_profiles;
DROP TABLE IF EXISTS student_records;
DROP TABLE IF EXISTS users;
DROP TABLE IF EXISTS user_roles;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE FEED
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create the social feed and events
-- Version: 002

CREATE TABLE IF NOT EXISTS posts (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    media_link VARCHAR(255) NOT NULL DEFAULT '',
    media_type VARCHAR(20) NOT NULL DEFAULT '',
    is_public BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC) WHERE is_public;
CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id);

CREATE TABLE IF NOT EXISTS comments (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    body TEXT NOT NULL,
    parent_comment_id BIGINT REFERENCES comments(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id, created_at);

CREATE TABLE IF NOT EXISTS post_reactions (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    kind VARCHAR(30) NOT NULL DEFAULT 'like',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_post_reactions_user UNIQUE (post_id, user_id)
);

CREATE TABLE IF NOT EXISTS events (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    location VARCHAR(255) NOT NULL DEFAULT '',
    starts_at TIMESTAMP WITH TIME ZONE NOT NULL,
    media_urls TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_events_starts ON events(starts_at);

CREATE TABLE IF NOT EXISTS event_interests (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    interest_type VARCHAR(20) NOT NULL DEFAULT 'INTERESTED',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_event_interests_user UNIQUE (event_id, user_id)
);
`

const migration002Down = `
DROP TABLE IF EXISTS event_interests;
DROP TABLE IF EXISTS events;
DROP TABLE IF EXISTS post_reactions;
DROP TABLE IF EXISTS comments;
DROP TABLE IF EXISTS posts;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE ASSESSMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create quizzes, courses and exam papers
-- Version: 003

CREATE TABLE IF NOT EXISTS quizzes (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    question TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    answers TEXT[] NOT NULL,
    correct_answer INTEGER NOT NULL,
    media_urls TEXT[] NOT NULL DEFAULT '{}',
    visible BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_quizzes_created ON quizzes(created_at DESC) WHERE visible;

CREATE TABLE IF NOT EXISTS courses (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    thumbnail_url VARCHAR(255) NOT NULL DEFAULT '',
    media_urls TEXT[] NOT NULL DEFAULT '{}',
    resource_urls TEXT[] NOT NULL DEFAULT '{}',
    marks_for_pass INTEGER NOT NULL DEFAULT 0,
    applicable_grade VARCHAR(10) NOT NULL DEFAULT '',
    applicable_level VARCHAR(10) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS course_questions (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    course_id BIGINT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    question TEXT NOT NULL,
    answers TEXT[] NOT NULL,
    correct_answer INTEGER NOT NULL,
    marks INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_course_questions_course ON course_questions(course_id);

CREATE TABLE IF NOT EXISTS exam_papers (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    subject VARCHAR(255) NOT NULL,
    grade INTEGER NOT NULL CHECK (grade BETWEEN 1 AND 13),
    school VARCHAR(255) NOT NULL DEFAULT '',
    semester VARCHAR(255) NOT NULL DEFAULT '',
    year VARCHAR(255) NOT NULL DEFAULT '',
    exam_type VARCHAR(50) NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    media_urls TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_exam_papers_grade ON exam_papers(grade, created_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS exam_papers;
DROP TABLE IF EXISTS course_questions;
DROP TABLE IF EXISTS courses;
DROP TABLE IF EXISTS quizzes;
`
