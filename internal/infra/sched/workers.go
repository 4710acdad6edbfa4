package sched

import (
	"context"

	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/usecase"

	"github.com/rs/zerolog"
)

// One consumer per queue. Each parses its payload and hands off to the use
// case; everything else (acking, quarantine, backoff) lives in Consumer.

func NewIngestWorker(queue, quarantine adapter.QueueChannel, maxReceive int, uc usecase.IngestUseCase, logger *zerolog.Logger) *Consumer {
	return NewConsumer("IngestWorker", queue, quarantine, maxReceive, func(ctx context.Context, body []byte) error {
		msg, err := model.ParseSubmissionMessage(body)
		if err != nil {
			return err
		}
		return uc.ProcessSubmission(ctx, msg)
	}, logger)
}

func NewArchivalWorker(queue, quarantine adapter.QueueChannel, maxReceive int, uc usecase.ArchiveUseCase, logger *zerolog.Logger) *Consumer {
	return NewConsumer("ArchivalWorker", queue, quarantine, maxReceive, func(ctx context.Context, body []byte) error {
		msg, err := model.ParseCompletionMessage(body)
		if err != nil {
			return err
		}
		return uc.ProcessCompletion(ctx, msg)
	}, logger)
}

func NewRestoreInitiator(queue, quarantine adapter.QueueChannel, maxReceive int, uc usecase.RestoreUseCase, logger *zerolog.Logger) *Consumer {
	return NewConsumer("RestoreInitiator", queue, quarantine, maxReceive, func(ctx context.Context, body []byte) error {
		msg, err := model.ParseRestoreStartMessage(body)
		if err != nil {
			return err
		}
		return uc.InitiateUserRestore(ctx, msg.UserID)
	}, logger)
}

func NewThawWorker(queue, quarantine adapter.QueueChannel, maxReceive int, uc usecase.ThawUseCase, logger *zerolog.Logger) *Consumer {
	return NewConsumer("ThawWorker", queue, quarantine, maxReceive, func(ctx context.Context, body []byte) error {
		msg, err := model.ParseRetrievalCompleteMessage(body)
		if err != nil {
			return err
		}
		return uc.RestoreToHot(ctx, msg)
	}, logger)
}
