package repository

import "errors"

// 対象が存在しないときに各Repositoryが返す共通エラー
var ErrNotFound = errors.New("not found")
