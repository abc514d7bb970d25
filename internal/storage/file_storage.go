package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// Documentos aceitos como anexo de chat além de imagens.
var documentTypes = map[string]struct{}{
	matchers.TypePdf.Extension:  {},
	matchers.TypeDoc.Extension:  {},
	matchers.TypeDocx.Extension: {},
	matchers.TypeXls.Extension:  {},
	matchers.TypeXlsx.Extension: {},
	matchers.TypeZip.Extension:  {},
}

// FileStorage é o armazenamento local de arquivos enviados: fotos de
// anúncio, avatares e anexos do chat.
type FileStorage struct {
	rootPath       string
	maxPhotoBytes  int64
	maxAttachBytes int64
}

// SavedFile descreve o resultado de um upload.
type SavedFile struct {
	RelativePath string
	Size         int64
	Kind         string // image | document
}

// NewFileStorage prepara o diretório raiz do armazenamento.
func NewFileStorage(rootPath string, maxPhotoMB, maxAttachMB int64) (*FileStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: falha ao criar o diretório %s: %w", rootPath, err)
	}

	return &FileStorage{
		rootPath:       rootPath,
		maxPhotoBytes:  maxPhotoMB * 1024 * 1024,
		maxAttachBytes: maxAttachMB * 1024 * 1024,
	}, nil
}

// SavePhoto grava uma imagem (avatar, foto de anúncio) de até 2MB.
// Apenas imagens são aceitas; o tipo é verificado pelos bytes iniciais.
func (s *FileStorage) SavePhoto(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (*SavedFile, error) {
	saved, err := s.save(ctx, userID, originalName, r, s.maxPhotoBytes)
	if err != nil {
		return nil, err
	}
	if saved.Kind != "image" {
		_ = s.Delete(ctx, saved.RelativePath)
		return nil, fmt.Errorf("storage: apenas imagens são aceitas aqui")
	}
	return saved, nil
}

// SaveChatAttachment grava um anexo de chat (imagem ou documento) de até 5MB.
func (s *FileStorage) SaveChatAttachment(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (*SavedFile, error) {
	return s.save(ctx, userID, originalName, r, s.maxAttachBytes)
}

func (s *FileStorage) save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader, maxBytes int64) (*SavedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Identifica o tipo real pelos bytes iniciais, nunca pela extensão.
	head := make([]byte, 261)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("storage: falha ao ler o arquivo: %w", err)
	}
	head = head[:n]

	kind, err := detectKind(head)
	if err != nil {
		return nil, err
	}

	safeName := sanitizeFilename(originalName)
	fileName := fmt.Sprintf("%s_%d%s", userID.String(), time.Now().UnixNano(), filepath.Ext(safeName))

	userDir := filepath.Join(s.rootPath, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: falha ao criar o diretório do usuário: %w", err)
	}

	targetPath := filepath.Join(userDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("storage: falha ao criar o arquivo: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), r), N: maxBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: falha ao gravar o arquivo: %w", err)
	}

	if written > maxBytes {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: o arquivo ultrapassa o limite de %d bytes", maxBytes)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("storage: falha ao fechar o arquivo: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return nil, fmt.Errorf("storage: falha ao renomear o arquivo: %w", err)
	}

	return &SavedFile{
		RelativePath: filepath.Join(userID.String(), fileName),
		Size:         written,
		Kind:         kind,
	}, nil
}

// Delete remove um arquivo do armazenamento.
func (s *FileStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, relativePath)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: falha ao remover o arquivo: %w", err)
	}
	return nil
}

// detectKind classifica o conteúdo em image ou document.
func detectKind(head []byte) (string, error) {
	match, err := filetype.Match(head)
	if err != nil || match == filetype.Unknown {
		return "", fmt.Errorf("storage: tipo de arquivo não reconhecido")
	}

	if filetype.IsImage(head) {
		return "image", nil
	}
	if _, ok := documentTypes[match.Extension]; ok {
		return "document", nil
	}

	return "", fmt.Errorf("storage: tipo de arquivo não permitido: %s", match.Extension)
}

// sanitizeFilename remove caracteres potencialmente perigosos.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "arquivo"
	}
	return name
}
