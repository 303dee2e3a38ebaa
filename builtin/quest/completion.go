// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package quest

import (
	"math"

	"github.com/vechain/questledger/builtin/attestation"
	"github.com/vechain/questledger/builtin/reverts"
	"github.com/vechain/questledger/builtin/roles"
	"github.com/vechain/questledger/events"
	"github.com/vechain/questledger/thor"
)

const errInvalidSignature = "Invalid Quest Signer Signature"

func (r *Registry) verify(message, signature []byte) error {
	signer, err := r.roles.Get(roles.QuestSigner)
	if err != nil {
		return err
	}
	return reverts.Require(r.verifier.Verify(signer, message, signature), errInvalidSignature)
}

// credit adds the multiplier of quest to bal.
func credit(bal *Balance, quest *Quest) error {
	if uint(bal.Permanent)+uint(bal.Seasonal)+uint(quest.Multiplier) > math.MaxUint8 {
		return reverts.New("Quest multiplier overflow")
	}
	if quest.Kind == Permanent {
		bal.Permanent += quest.Multiplier
	} else {
		bal.Seasonal += quest.Multiplier
	}
	return nil
}

// CompleteUserQuests completes quests for one account. An invalid or already
// completed quest aborts the whole batch.
func (r *Registry) CompleteUserQuests(account thor.Address, ids []uint64, signature []byte) (*Completion, error) {
	logger.Debug("completing user quests", "account", account, "ids", ids)

	if len(ids) == 0 {
		return nil, reverts.New("No quest IDs")
	}
	bal, err := r.Balance(account)
	if err != nil {
		return nil, err
	}
	if _, err := r.checkForSeasonFinish(account, bal); err != nil {
		return nil, err
	}

	verified := false
	for _, id := range ids {
		quest, valid, err := r.validQuest(id)
		if err != nil {
			return nil, err
		}
		if !valid {
			return nil, reverts.New("Err: Invalid Quest")
		}
		done, err := r.HasCompleted(account, id)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, reverts.New("Err: Already Completed")
		}
		if !verified {
			if err := r.verify(attestation.UserQuestsMessage(account, ids), signature); err != nil {
				return nil, err
			}
			verified = true
		}
		if err := r.completions.Set(completionKey{account, id}, true); err != nil {
			return nil, err
		}
		if err := credit(bal, quest); err != nil {
			return nil, err
		}
	}

	bal.LastAction = r.clock.Now()
	if err := r.balances.Set(account, bal); err != nil {
		return nil, err
	}
	r.emitter.Emit(r.sctx.Address(), events.QuestCompleteQuests{User: account, IDs: append([]uint64(nil), ids...)})

	logger.Info("completed user quests", "account", account, "multiplier", bal.Multiplier())
	return &Completion{Account: account, Multiplier: bal.Multiplier()}, nil
}

// CompleteQuestUsers completes one quest for many accounts. Accounts that
// already completed the quest are skipped.
func (r *Registry) CompleteQuestUsers(id uint64, accounts []thor.Address, signature []byte) ([]Completion, error) {
	logger.Debug("completing quest users", "id", id, "accounts", len(accounts))

	if len(accounts) == 0 {
		return nil, reverts.New("No accounts")
	}
	quest, valid, err := r.validQuest(id)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, reverts.New("Invalid Quest ID")
	}
	if err := r.verify(attestation.QuestUsersMessage(id, accounts), signature); err != nil {
		return nil, err
	}

	now := r.clock.Now()
	completions := make([]Completion, 0, len(accounts))
	for _, account := range accounts {
		done, err := r.HasCompleted(account, id)
		if err != nil {
			return nil, err
		}
		if done {
			continue
		}
		bal, err := r.Balance(account)
		if err != nil {
			return nil, err
		}
		if _, err := r.checkForSeasonFinish(account, bal); err != nil {
			return nil, err
		}
		if err := r.completions.Set(completionKey{account, id}, true); err != nil {
			return nil, err
		}
		if err := credit(bal, quest); err != nil {
			return nil, err
		}
		bal.LastAction = now
		if err := r.balances.Set(account, bal); err != nil {
			return nil, err
		}
		completions = append(completions, Completion{Account: account, Multiplier: bal.Multiplier()})
	}

	r.emitter.Emit(r.sctx.Address(), events.QuestCompleteUsers{ID: id, Users: append([]thor.Address(nil), accounts...)})
	logger.Info("completed quest users", "id", id, "completed", len(completions))
	return completions, nil
}
