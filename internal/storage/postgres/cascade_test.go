package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deleteTargets(t *testing.T, statements []string) []string {
	t.Helper()
	targets := make([]string, 0, len(statements))
	for _, stmt := range statements {
		fields := strings.Fields(stmt)
		require.GreaterOrEqual(t, len(fields), 3, "statement %q", stmt)
		require.Equal(t, "DELETE", fields[0], "statement %q", stmt)
		require.Equal(t, "FROM", fields[1], "statement %q", stmt)
		targets = append(targets, fields[2])
	}
	return targets
}

func TestCourseCascadeOrdersChildrenBeforeParents(t *testing.T) {
	assert.Equal(t, []string{
		"quiz_attempt_answers",
		"quiz_attempts",
		"choices",
		"questions",
		"quizzes",
		"completed_lessons",
		"enrollments",
		"lessons",
	}, deleteTargets(t, courseCascadeStatements))
}

func TestCourseCascadeLeavesCertificates(t *testing.T) {
	for _, stmt := range courseCascadeStatements {
		assert.NotContains(t, stmt, "certificates")
	}
}

func TestLessonCascadeOrdersQuizSubtreeFirst(t *testing.T) {
	assert.Equal(t, []string{
		"quiz_attempt_answers",
		"quiz_attempts",
		"choices",
		"questions",
		"quizzes",
		"completed_lessons",
	}, deleteTargets(t, lessonCascadeStatements))
}
