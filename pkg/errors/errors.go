// Package errors はパイプライン全体のエラーハンドリングを提供します。
// データセット読み込みから学習・評価・レポート生成までの各段階で発生する
// 失敗を構造化されたエラー型として表現します。
package errors

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// SchemaError は期待される列がデータセットに存在しない場合のエラーです。
type SchemaError struct {
	Op     string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sensorbench: %s: required column %q is not present in the dataset", e.Op, e.Column)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "SchemaError")
}

// NewSchemaError は新しいSchemaErrorを作成し、スタックトレースを付与します。
func NewSchemaError(op, column string) error {
	err := &SchemaError{Op: op, Column: column}
	return errors.WithStack(err)
}

// InsufficientDataError は層化分割が要求された割合で実行不可能な場合のエラーです。
type InsufficientDataError struct {
	Label    string
	Rows     int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("sensorbench: label class %q has %d rows; at least %d are required to stratify", e.Label, e.Rows, e.Required)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("label", e.Label).
		Int("rows", e.Rows).
		Int("required", e.Required).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError は新しいInsufficientDataErrorを作成し、スタックトレースを付与します。
func NewInsufficientDataError(label string, rows, required int) error {
	err := &InsufficientDataError{Label: label, Rows: rows, Required: required}
	return errors.WithStack(err)
}

// UnknownMethodError は設定が未知の学習メソッド名を指定した場合のエラーです。
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("sensorbench: unknown training method %q", e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownMethodError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("method", e.Method).
		Str("type", "UnknownMethodError")
}

// NewUnknownMethodError は新しいUnknownMethodErrorを作成し、スタックトレースを付与します。
func NewUnknownMethodError(method string) error {
	err := &UnknownMethodError{Method: method}
	return errors.WithStack(err)
}

// TrainingError はバックエンドの学習処理が失敗した場合のエラーです。
// 元の失敗（特異行列、収束失敗など）をラップします。
type TrainingError struct {
	Method  string
	Elapsed time.Duration
	Err     error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("sensorbench: training %s failed after %s: %v", e.Method, e.Elapsed, e.Err)
}

func (e *TrainingError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TrainingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("method", e.Method).
		Dur("elapsed", e.Elapsed).
		AnErr("cause", e.Err).
		Str("type", "TrainingError")
}

// NewTrainingError は新しいTrainingErrorを作成し、スタックトレースを付与します。
func NewTrainingError(method string, elapsed time.Duration, err error) error {
	trainErr := &TrainingError{Method: method, Elapsed: elapsed, Err: err}
	return errors.WithStack(trainErr)
}

// StorageError はモデルアーティファクトの読み書きに失敗した場合のエラーです。
type StorageError struct {
	Op  string // "read", "write", "decode", "encode"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("sensorbench: artifact %s failed for key %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *StorageError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("key", e.Key).
		AnErr("cause", e.Err).
		Str("type", "StorageError")
}

// NewStorageError は新しいStorageErrorを作成し、スタックトレースを付与します。
func NewStorageError(op, key string, err error) error {
	storageErr := &StorageError{Op: op, Key: key, Err: err}
	return errors.WithStack(storageErr)
}

// ShapeMismatchError は評価入力が学習時と整合しない場合のエラーです。
// 欠けている列名、または特徴量数の不一致を保持します。
type ShapeMismatchError struct {
	Op       string
	Column   string // 欠けている列（列起因の場合）
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("sensorbench: %s: input is missing column %q", e.Op, e.Column)
	}
	return fmt.Sprintf("sensorbench: %s: feature count mismatch. Expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError は列の欠落によるShapeMismatchErrorを作成します。
func NewShapeMismatchError(op, column string) error {
	err := &ShapeMismatchError{Op: op, Column: column}
	return errors.WithStack(err)
}

// NewShapeDimensionError は特徴量数の不一致によるShapeMismatchErrorを作成します。
func NewShapeDimensionError(op string, expected, got int) error {
	err := &ShapeMismatchError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// NotFittedError はモデルが未学習の状態で `Predict` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("sensorbench: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("sensorbench: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")

	// ErrCacheMiss はアーティファクトがストアに存在しない場合のエラーです。
	ErrCacheMiss = New("cache miss")
)
