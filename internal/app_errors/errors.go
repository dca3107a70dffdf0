package app_errors

import "errors"

// Caller errors (HTTP 400).
var ErrInvalidID = errors.New("invalid id")
var ErrTitleRequired = errors.New("title is required")
var ErrContentRequired = errors.New("title and content are required")
var ErrQuestionTextRequired = errors.New("question text is required")
var ErrChoiceTextRequired = errors.New("choice text is required")
var ErrNotEnoughChoices = errors.New("at least 2 choices are required")
var ErrNoCorrectChoice = errors.New("at least one choice must be marked correct")
var ErrNoQuestions = errors.New("at least one question is required")
var ErrNoQuizzes = errors.New("this course has no quizzes to complete")
var ErrQuizzesNotPassed = errors.New("not all course quizzes have a passing attempt")
var ErrIncorrectPassword = errors.New("incorrect email or password")
var ErrInvalidPassword = errors.New("password must be between 6 and 72 characters")

// Missing entities (HTTP 404).
var ErrUserNotFound = errors.New("user not found")
var ErrCourseNotFound = errors.New("course not found")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrQuizNotFound = errors.New("quiz not found")
var ErrQuestionNotFound = errors.New("question not found")
var ErrAttemptNotFound = errors.New("quiz attempt not found")
var ErrNotEnrolled = errors.New("user is not enrolled in this course")
var ErrCertificateNotFound = errors.New("certificate not found")
var ErrLessonNotInCourse = errors.New("lesson not found in this course")

// Uniqueness and idempotency violations (HTTP 409).
var ErrUserExists = errors.New("user with this email already exists")
var ErrAlreadyEnrolled = errors.New("user is already enrolled in this course")
var ErrLessonAlreadyCompleted = errors.New("lesson already marked as completed")
var ErrCertificateExists = errors.New("certificate already exists for this enrollment")
var ErrCertificateNumberTaken = errors.New("certificate number already taken")

var ErrTokenExpired = errors.New("token expired")
